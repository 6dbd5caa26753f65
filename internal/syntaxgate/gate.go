// Package syntaxgate checks that submitted Python source is valid Python 3
// before it is sent anywhere. It is purely syntactic.
package syntaxgate

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxBytes bounds the size of a submission.
const DefaultMaxBytes = 1 << 20

// SyntaxError describes the first problem found in a submission.
// Line and Column are 1-based; Column counts bytes.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Column)
}

// Gate parses Python source with tree-sitter.
type Gate struct {
	MaxBytes int
}

// New returns a Gate with default limits.
func New() *Gate {
	return &Gate{MaxBytes: DefaultMaxBytes}
}

// Check returns nil if src is valid Python 3, or a *SyntaxError locating
// the first error. Other errors report a parser failure.
func (g *Gate) Check(ctx context.Context, src string) error {
	if g.MaxBytes > 0 && len(src) > g.MaxBytes {
		return &SyntaxError{Msg: fmt.Sprintf("source exceeds %d bytes", g.MaxBytes)}
	}

	data := []byte(src)
	if !utf8.Valid(data) {
		line, col := invalidUTF8Position(data)
		return &SyntaxError{Line: line, Column: col, Msg: "invalid UTF-8"}
	}

	// A parser is not safe for concurrent use, so each check gets its own.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, data)
	if err != nil {
		return fmt.Errorf("parse python source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("parse python source: empty parse tree")
	}
	if !root.HasError() {
		if se := lint(root, data); se != nil {
			return se
		}
		return nil
	}

	if n := firstErrorNode(root); n != nil {
		return describe(n)
	}
	return &SyntaxError{Line: 1, Column: 1, Msg: "invalid syntax"}
}

// Validate reports whether src is valid Python 3. On failure the second
// result is a human-readable diagnostic.
func Validate(src string) (bool, string) {
	if err := New().Check(context.Background(), src); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// firstErrorNode returns the earliest ERROR or MISSING node in document
// order.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsError() || n.IsMissing() {
			return n
		}
		if !n.HasError() {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return nil
}

// closers maps a bracket tree-sitter inserts as MISSING to its opener.
var closers = map[string]string{")": "(", "]": "[", "}": "{"}

func describe(n *sitter.Node) *SyntaxError {
	pt := n.StartPoint()
	e := &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Msg: "invalid syntax"}

	if !n.IsMissing() {
		return e
	}
	if open, ok := closers[n.Type()]; ok {
		e.Msg = fmt.Sprintf("'%s' was never closed", open)
		if o := openerOf(n, open); o != nil {
			pt = o.StartPoint()
			e.Line, e.Column = int(pt.Row)+1, int(pt.Column)+1
		}
		return e
	}
	if n.Type() == ":" {
		e.Msg = "expected ':'"
	}
	return e
}

// openerOf finds the bracket a MISSING closer was inserted for.
func openerOf(n *sitter.Node, open string) *sitter.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		if c := parent.Child(i); c != nil && !c.IsNamed() && c.Type() == open {
			return c
		}
	}
	return nil
}

func invalidUTF8Position(data []byte) (line, col int) {
	off := 0
	for off < len(data) {
		r, size := utf8.DecodeRune(data[off:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		off += size
	}
	before := data[:off]
	line = bytes.Count(before, []byte("\n")) + 1
	col = off - (bytes.LastIndexByte(before, '\n') + 1) + 1
	return line, col
}
