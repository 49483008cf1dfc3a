package cursive

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextView displays static multi-line text. It is not focusable.
type TextView struct {
	BaseView
	lines []string
}

// NewTextView creates a text view with the given content. Lines are split
// on '\n'.
func NewTextView(content string) *TextView {
	t := &TextView{}
	t.SetContent(content)
	return t
}

// SetContent replaces the text content.
func (t *TextView) SetContent(content string) {
	if content == "" {
		t.lines = nil
		return
	}
	t.lines = strings.Split(content, "\n")
}

// Content returns the text content.
func (t *TextView) Content() string {
	return strings.Join(t.lines, "\n")
}

// RequiredSize returns the text extent, clamped to the constraint.
func (t *TextView) RequiredSize(constraint Size) Size {
	var sz Size
	for _, line := range t.lines {
		sz.W = max(sz.W, runewidth.StringWidth(line))
	}
	sz.H = len(t.lines)
	return sz.Min(constraint)
}

// Draw renders the text at the origin. Overflow is clipped by the painter.
func (t *TextView) Draw(p *Painter) {
	for y, line := range t.lines {
		p.Print(0, y, line)
	}
}
