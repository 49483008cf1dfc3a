package cursive

import "github.com/mattn/go-runewidth"

// Box drawing characters for borders.
const (
	BoxHorizontal  = '─'
	BoxVertical    = '│'
	BoxTopLeft     = '┌'
	BoxTopRight    = '┐'
	BoxBottomLeft  = '└'
	BoxBottomRight = '┘'
)

// Painter is the drawing context handed to a view's Draw method. It maps
// the view's local coordinates onto a target Surface, carrying an absolute
// origin, a clip rectangle, the current style and a focused flag.
//
// Painters are derived, never mutated: Cropped, Offset, WithStyle and
// WithFocus all return a new value scoped to the nested draw call, so
// clipping and styling nest correctly no matter how deep the view tree is
// and a child can never leak drawing state into a sibling.
type Painter struct {
	surface Surface
	origin  Pos  // absolute position of local (0, 0)
	clip    Rect // absolute clip rectangle
	size    Size // size granted to the view being drawn
	style   Style
	focused bool
}

// NewPainter creates a painter covering the whole surface.
func NewPainter(s Surface) Painter {
	sz := s.Size()
	return Painter{
		surface: s,
		clip:    Rect{0, 0, sz.W, sz.H},
		size:    sz,
		style:   DefaultStyle(),
	}
}

// Size returns the size granted to the view being drawn.
func (p Painter) Size() Size {
	return p.size
}

// Style returns the current style.
func (p Painter) Style() Style {
	return p.style
}

// Focused returns true if the view being drawn lies on the active focus
// path. Views use this to render their focused appearance.
func (p Painter) Focused() bool {
	return p.focused
}

// Cropped returns a painter for the given local rectangle: its origin
// becomes the rectangle's top-left corner and drawing is clipped to the
// intersection with the current clip region.
func (p Painter) Cropped(r Rect) Painter {
	abs := r.Translate(p.origin.X, p.origin.Y)
	p.origin = abs.Pos()
	p.clip = p.clip.Intersect(abs)
	p.size = r.Size()
	return p
}

// Offset returns a painter shifted by (dx, dy) with the remaining size.
func (p Painter) Offset(dx, dy int) Painter {
	return p.Cropped(Rect{dx, dy, p.size.W - dx, p.size.H - dy})
}

// WithStyle returns a painter with the style delta applied on top of the
// current style.
func (p Painter) WithStyle(delta Style) Painter {
	p.style = p.style.Patch(delta)
	return p
}

// WithFocus returns a painter with the focused flag set as given.
func (p Painter) WithFocus(focused bool) Painter {
	p.focused = focused
	return p
}

// write places a single rune (plus continuation cells for double-width
// characters) at local (x, y). The glyph is dropped entirely if any of its
// cells would fall outside the clip rectangle; a half-drawn wide character
// would corrupt the neighboring content. Returns the rune's display width.
func (p Painter) write(x, y int, r rune) int {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return 0
	}
	ax, ay := p.origin.X+x, p.origin.Y+y
	for i := 0; i < w; i++ {
		if !p.clip.Contains(ax+i, ay) {
			return w
		}
	}
	p.surface.SetCell(ax, ay, NewCell(r, p.style))
	for i := 1; i < w; i++ {
		p.surface.SetCell(ax+i, ay, Cell{Style: p.style})
	}
	return w
}

// SetCell draws a single rune at local (x, y) with the current style.
func (p Painter) SetCell(x, y int, r rune) {
	p.write(x, y, r)
}

// Print draws text starting at local (x, y) with the current style. Text
// never wraps; anything outside the clip region is silently dropped.
func (p Painter) Print(x, y int, text string) {
	for _, r := range text {
		x += p.write(x, y, r)
	}
}

// FillRect fills a local rectangle with the given rune.
func (p Painter) FillRect(r Rect, ch rune) {
	for dy := 0; dy < r.H; dy++ {
		for dx := 0; dx < r.W; dx++ {
			p.write(r.X+dx, r.Y+dy, ch)
		}
	}
}

// Fill fills the painter's whole granted area with the given rune.
func (p Painter) Fill(ch rune) {
	p.FillRect(Rect{0, 0, p.size.W, p.size.H}, ch)
}

// HLine draws a horizontal line of the given rune.
func (p Painter) HLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		p.write(x+i, y, r)
	}
}

// VLine draws a vertical line of the given rune.
func (p Painter) VLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		p.write(x, y+i, r)
	}
}

// Box draws a border around the local rectangle, with an optional title in
// the top edge. Rectangles smaller than 2x2 are ignored.
func (p Painter) Box(r Rect, title string) {
	if r.W < 2 || r.H < 2 {
		return
	}
	p.HLine(r.X+1, r.Y, r.W-2, BoxHorizontal)
	p.HLine(r.X+1, r.Y+r.H-1, r.W-2, BoxHorizontal)
	p.VLine(r.X, r.Y+1, r.H-2, BoxVertical)
	p.VLine(r.X+r.W-1, r.Y+1, r.H-2, BoxVertical)
	p.write(r.X, r.Y, BoxTopLeft)
	p.write(r.X+r.W-1, r.Y, BoxTopRight)
	p.write(r.X, r.Y+r.H-1, BoxBottomLeft)
	p.write(r.X+r.W-1, r.Y+r.H-1, BoxBottomRight)

	if title != "" && r.W > 4 {
		t := runewidth.Truncate(title, r.W-4, "…")
		p.Print(r.X+2, r.Y, t)
	}
}
