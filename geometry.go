package cursive

// Size is a width/height pair in character cells.
type Size struct {
	W, H int
}

// Fits returns true if s fits inside other on both axes.
func (s Size) Fits(other Size) bool {
	return s.W <= other.W && s.H <= other.H
}

// Min returns the component-wise minimum of two sizes.
func (s Size) Min(other Size) Size {
	if other.W < s.W {
		s.W = other.W
	}
	if other.H < s.H {
		s.H = other.H
	}
	return s
}

// Max returns the component-wise maximum of two sizes.
func (s Size) Max(other Size) Size {
	if other.W > s.W {
		s.W = other.W
	}
	if other.H > s.H {
		s.H = other.H
	}
	return s
}

// Shrink returns s reduced by dw and dh, clamped at zero.
func (s Size) Shrink(dw, dh int) Size {
	s.W -= dw
	s.H -= dh
	if s.W < 0 {
		s.W = 0
	}
	if s.H < 0 {
		s.H = 0
	}
	return s
}

// Grow returns s enlarged by dw and dh.
func (s Size) Grow(dw, dh int) Size {
	return Size{s.W + dw, s.H + dh}
}

// IsZero returns true if either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.W <= 0 || s.H <= 0
}

// Pos is an x/y position in character cells.
type Pos struct {
	X, Y int
}

// Add returns the sum of two positions.
func (p Pos) Add(q Pos) Pos {
	return Pos{p.X + q.X, p.Y + q.Y}
}

// Rect is an axis-aligned rectangle in character cells.
type Rect struct {
	X, Y, W, H int
}

// RectOf builds a Rect from a position and a size.
func RectOf(p Pos, s Size) Rect {
	return Rect{p.X, p.Y, s.W, s.H}
}

// Pos returns the top-left corner.
func (r Rect) Pos() Pos {
	return Pos{r.X, r.Y}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{r.W, r.H}
}

// Empty returns true if the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the cell at (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersect returns the overlap of two rectangles. The result is empty if
// they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.X+r.W, other.X+other.W)
	y2 := min(r.Y+r.H, other.Y+other.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{X: x1, Y: y1}
	}
	return Rect{x1, y1, x2 - x1, y2 - y1}
}
