package components

import (
	"fmt"

	"charm.land/bubbles/v2/viewport"

	"github.com/abhisek/dpt/internal/ui/theme"
)

// ScrollHint is the footer hint for screens showing a scrollable pane.
const ScrollHint = "PgUp/PgDn"

// ScrollPane shows pre-wrapped text in a window no taller than its content,
// paged with PgUp and PgDn. A position line is added when the text does
// not fit.
type ScrollPane struct {
	vp      viewport.Model
	content string
}

// NewScrollPane returns an empty pane.
func NewScrollPane() ScrollPane {
	return ScrollPane{vp: viewport.New()}
}

// SetContent replaces the text, keeping the scroll position where it
// still fits.
func (p *ScrollPane) SetContent(s string) {
	if s == p.content {
		return
	}
	p.content = s
	p.vp.SetContent(s)
}

// GotoTop scrolls back to the first line.
func (p *ScrollPane) GotoTop() {
	p.vp.GotoTop()
}

// EnsureVisible scrolls so that line is in view.
func (p *ScrollPane) EnsureVisible(line int) {
	p.vp.EnsureVisible(line, 0, 0)
}

// SetSize fits the pane into width columns and at most maxHeight lines,
// including the position line. Call it after SetContent.
func (p *ScrollPane) SetSize(width, maxHeight int) {
	p.vp.SetWidth(width)

	total := p.vp.TotalLineCount()
	h := maxHeight
	if total <= maxHeight {
		h = total
	} else {
		h = maxHeight - 1
	}
	p.vp.SetHeight(max(h, 1))
	p.vp.SetYOffset(p.vp.YOffset())
}

// Scroll pages the pane for "pgdown" and "pgup" and reports whether key was
// one of them.
func (p *ScrollPane) Scroll(key string) bool {
	switch key {
	case "pgdown":
		p.vp.PageDown()
		return true
	case "pgup":
		p.vp.PageUp()
		return true
	}
	return false
}

// Scrollable reports whether some of the text is out of view.
func (p *ScrollPane) Scrollable() bool {
	return p.vp.TotalLineCount() > p.vp.Height()
}

func (p *ScrollPane) View() string {
	v := p.vp.View()
	if !p.Scrollable() {
		return v
	}
	return v + "\n" + theme.Hint.Render(fmt.Sprintf("%s to scroll · %d%%", ScrollHint, int(p.vp.ScrollPercent()*100)))
}
