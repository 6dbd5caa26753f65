package syntaxgate

import (
	"fmt"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// The tree-sitter grammar still accepts some Python 2 forms and recovers
// silently from a few mistakes CPython rejects. linter walks an error-free
// tree and reports the first of those, worded the way CPython words it.

// blockOwners maps statements with an indented body to the name CPython
// uses for them in "expected an indented block" errors.
var blockOwners = map[string]string{
	"function_definition": "function definition",
	"class_definition":    "class definition",
	"if_statement":        "'if' statement",
	"elif_clause":         "'elif' statement",
	"else_clause":         "'else' statement",
	"for_statement":       "'for' statement",
	"while_statement":     "'while' statement",
	"try_statement":       "'try' statement",
	"except_clause":       "'except' statement",
	"except_group_clause": "'except*' statement",
	"finally_clause":      "'finally' statement",
	"with_statement":      "'with' statement",
	"match_statement":     "'match' statement",
	"case_clause":         "'case' statement",
}

type linter struct {
	src   []byte
	lines []int // byte offset of each row

	// starts maps a row holding the start of a logical line to the
	// smallest column a statement or clause begins at on it.
	starts map[uint32]uint32

	first *SyntaxError
}

func lint(root *sitter.Node, src []byte) *SyntaxError {
	l := &linter{src: src, lines: []int{0}, starts: make(map[uint32]uint32)}
	for i, b := range src {
		if b == '\n' {
			l.lines = append(l.lines, i+1)
		}
	}

	l.walk(root)
	l.checkIndentation()
	return l.first
}

// report keeps the earliest error by position.
func (l *linter) report(line, col int, msg string) {
	if l.first == nil || line < l.first.Line || (line == l.first.Line && col < l.first.Column) {
		l.first = &SyntaxError{Line: line, Column: col, Msg: msg}
	}
}

func (l *linter) reportAt(n *sitter.Node, msg string) {
	pt := n.StartPoint()
	l.report(int(pt.Row)+1, int(pt.Column)+1, msg)
}

func (l *linter) walk(n *sitter.Node) {
	l.check(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			l.walk(c)
		}
	}
}

func (l *linter) check(n *sitter.Node) {
	typ := n.Type()
	if what, ok := blockOwners[typ]; ok {
		l.checkBody(n, what)
		l.markStart(n)
	}

	switch typ {
	case "module":
		for _, c := range statements(n) {
			l.markStart(c)
			if l.firstOnLine(c) && c.StartPoint().Column != 0 {
				l.reportAt(c, "unexpected indent")
			}
		}
	case "block":
		for _, c := range statements(n) {
			l.markStart(c)
		}
	case "decorator":
		l.markStart(n)

	case "print_statement":
		l.reportAt(n, "Missing parentheses in call to 'print'. Did you mean print(...)?")
	case "exec_statement":
		l.reportAt(n, "Missing parentheses in call to 'exec'. Did you mean exec(...)?")

	case "parameters", "lambda_parameters":
		l.checkDefaults(n)
	case "delete_statement":
		for _, c := range statements(n) {
			l.checkDeleteTarget(c)
		}

	case "expression_statement":
		if c := n.NamedChild(0); c != nil && c.Type() == "named_expression" {
			l.reportAt(c, "invalid syntax")
		}
	case "assignment", "augmented_assignment":
		if r := n.ChildByFieldName("right"); r != nil && r.Type() == "named_expression" {
			l.reportAt(r, "invalid syntax")
		}

	case "for_in_clause":
		// Python 3 takes a single iterable here; "for x in a, b" is
		// Python 2 list comprehension syntax.
		if comma := anonymousChild(n, ","); comma != nil {
			msg := "invalid syntax"
			if gen := n.Parent(); gen != nil && gen.Type() == "generator_expression" {
				if call := gen.Parent(); call != nil && call.Type() == "call" {
					msg = "Generator expression must be parenthesized"
				}
			}
			l.reportAt(comma, msg)
		}
	case "except_clause":
		if comma := anonymousChild(n, ","); comma != nil {
			l.reportAt(comma, "multiple exception types must be parenthesized")
		}
	case "raise_statement":
		if c := n.NamedChild(0); c != nil && c.Type() == "expression_list" {
			l.reportAt(c, "invalid syntax")
		}
	case "comparison_operator":
		if op := anonymousChild(n, "<>"); op != nil {
			l.reportAt(op, "invalid syntax")
		}

	case "identifier":
		if name := n.Content(l.src); name == "async" || name == "await" {
			l.reportAt(n, "invalid syntax")
		}
	case "integer":
		l.checkInteger(n)
	}
}

// checkBody reports a compound statement whose body is empty or does not
// sit deeper than the statement's own line.
func (l *linter) checkBody(n *sitter.Node, what string) {
	msg := fmt.Sprintf("expected an indented block after %s on line %d", what, n.StartPoint().Row+1)
	headerRow := n.StartPoint().Row
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case ":":
			headerRow = c.StartPoint().Row
		case "block":
			body := statements(c)
			if len(body) == 0 {
				l.report(int(headerRow)+2, 1, msg)
				return
			}
			first := body[0]
			if first.StartPoint().Row > headerRow && l.firstOnLine(first) {
				own, _ := measureIndent(l.indent(n.StartPoint().Row))
				got, _ := measureIndent(l.indent(first.StartPoint().Row))
				if got <= own {
					l.report(int(first.StartPoint().Row)+1, 1, msg)
				}
			}
			return
		}
	}
	l.report(int(headerRow)+2, 1, msg)
}

// checkDefaults reports a positional parameter without a default after
// one with a default. Parameters after * or *args are keyword-only and
// exempt.
func (l *linter) checkDefaults(n *sitter.Node) {
	seenDefault := false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "default_parameter", "typed_default_parameter":
			seenDefault = true
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return
		case "typed_parameter":
			if inner := c.NamedChild(0); inner != nil &&
				(inner.Type() == "list_splat_pattern" || inner.Type() == "dictionary_splat_pattern") {
				return
			}
			fallthrough
		case "identifier", "tuple_pattern":
			if seenDefault {
				l.reportAt(c, "parameter without a default follows parameter with a default")
				return
			}
		}
	}
}

func (l *linter) checkDeleteTarget(n *sitter.Node) {
	switch n.Type() {
	case "identifier", "attribute", "subscript":
	case "expression_list", "tuple", "list", "parenthesized_expression",
		"pattern_list", "tuple_pattern", "list_pattern":
		for _, c := range statements(n) {
			l.checkDeleteTarget(c)
		}
	case "call":
		l.reportAt(n, "cannot delete function call")
	case "string", "concatenated_string", "integer", "float", "true", "false", "none":
		l.reportAt(n, "cannot delete literal")
	default:
		l.reportAt(n, "cannot delete expression")
	}
}

func (l *linter) checkInteger(n *sitter.Node) {
	text := strings.ToLower(strings.ReplaceAll(n.Content(l.src), "_", ""))
	switch {
	case strings.HasSuffix(text, "l"):
		l.reportAt(n, "invalid decimal literal")
	case len(text) > 1 && text[0] == '0' && isDecimal(text) && strings.Trim(text, "0") != "":
		l.reportAt(n, "leading zeros in decimal integer literals are not permitted; use an 0o prefix for octal integers")
	}
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (l *linter) markStart(n *sitter.Node) {
	pt := n.StartPoint()
	if col, ok := l.starts[pt.Row]; !ok || pt.Column < col {
		l.starts[pt.Row] = pt.Column
	}
}

// indent returns the leading whitespace of row.
func (l *linter) indent(row uint32) []byte {
	if int(row) >= len(l.lines) {
		return nil
	}
	start := l.lines[row]
	end := start
	for end < len(l.src) && (l.src[end] == ' ' || l.src[end] == '\t' || l.src[end] == '\f') {
		end++
	}
	return l.src[start:end]
}

func (l *linter) firstOnLine(n *sitter.Node) bool {
	pt := n.StartPoint()
	return int(pt.Column) == len(l.indent(pt.Row))
}

// checkIndentation applies CPython's tokenizer rule: every indentation
// level must compare the same way whether a tab counts as 8 columns or
// as 1.
func (l *linter) checkIndentation() {
	rows := make([]uint32, 0, len(l.starts))
	for row := range l.starts {
		rows = append(rows, row)
	}
	slices.Sort(rows)

	levels, alts := []int{0}, []int{0}
	for _, row := range rows {
		ws := l.indent(row)
		if int(l.starts[row]) != len(ws) {
			continue
		}
		col, alt := measureIndent(ws)
		line := int(row) + 1

		top := len(levels) - 1
		switch {
		case col == levels[top]:
			if alt != alts[top] {
				l.report(line, 1, "inconsistent use of tabs and spaces in indentation")
				return
			}
		case col > levels[top]:
			if alt <= alts[top] {
				l.report(line, 1, "inconsistent use of tabs and spaces in indentation")
				return
			}
			levels, alts = append(levels, col), append(alts, alt)
		default:
			for top > 0 && col < levels[top] {
				top--
			}
			levels, alts = levels[:top+1], alts[:top+1]
			if col != levels[top] {
				l.report(line, 1, "unindent does not match any outer indentation level")
				return
			}
			if alt != alts[top] {
				l.report(line, 1, "inconsistent use of tabs and spaces in indentation")
				return
			}
		}
	}
}

// measureIndent returns the width of ws with tabs stopping every 8 columns
// and with tabs counted as one column.
func measureIndent(ws []byte) (col, alt int) {
	for _, b := range ws {
		switch b {
		case ' ':
			col++
			alt++
		case '\t':
			col = (col/8 + 1) * 8
			alt++
		case '\f':
			col, alt = 0, 0
		}
	}
	return col, alt
}

// statements returns the named children of n other than comments.
func statements(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c != nil && c.Type() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

func anonymousChild(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() && c.Type() == typ {
			return c
		}
	}
	return nil
}
