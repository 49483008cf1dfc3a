package cursive

// Orientation specifies the layout direction of a StackView.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

type stackChild struct {
	view   View
	weight int
	size   Size
	offset Pos
}

// StackView arranges children in a line. Each child is first granted its
// required size under the remaining constraint; any remainder is then
// distributed across children with a positive weight, proportionally.
// Children are stretched to the full cross-axis size.
type StackView struct {
	BaseView
	orient   Orientation
	children []stackChild
	focused  int
}

// NewVStack creates a vertical stack of the given views.
func NewVStack(views ...View) *StackView {
	return newStack(Vertical, views)
}

// NewHStack creates a horizontal stack of the given views.
func NewHStack(views ...View) *StackView {
	return newStack(Horizontal, views)
}

func newStack(orient Orientation, views []View) *StackView {
	s := &StackView{orient: orient, focused: -1}
	for _, v := range views {
		s.Add(v)
	}
	return s
}

// Add appends a fixed-size child. Returns the stack for chaining.
func (s *StackView) Add(v View) *StackView {
	return s.AddWeighted(v, 0)
}

// AddWeighted appends a child that receives a weighted share of any space
// left over after all requirements are met.
func (s *StackView) AddWeighted(v View, weight int) *StackView {
	s.children = append(s.children, stackChild{view: v, weight: weight})
	return s
}

// RemoveChild removes the i-th child. Removing the focused child leaves
// the stack with no focused child; the screen re-seeks focus afterwards.
func (s *StackView) RemoveChild(i int) {
	if i < 0 || i >= len(s.children) {
		return
	}
	s.children = append(s.children[:i], s.children[i+1:]...)
	switch {
	case s.focused == i:
		s.focused = -1
	case s.focused > i:
		s.focused--
	}
}

// ChildCount implements Composite.
func (s *StackView) ChildCount() int {
	return len(s.children)
}

// Child implements Composite.
func (s *StackView) Child(i int) View {
	return s.children[i].view
}

// SetFocusedChild implements Composite.
func (s *StackView) SetFocusedChild(i int) {
	s.focused = i
}

// measure returns each child's requirement under the constraint, consumed
// front to back along the main axis, plus the aggregate requirement.
func (s *StackView) measure(constraint Size) ([]Size, Size) {
	sizes := make([]Size, len(s.children))
	remaining := constraint
	var total Size
	for i := range s.children {
		req := checkedRequiredSize(s.children[i].view, remaining)
		sizes[i] = req
		if s.orient == Vertical {
			remaining.H -= req.H
			total.H += req.H
			total.W = max(total.W, req.W)
		} else {
			remaining.W -= req.W
			total.W += req.W
			total.H = max(total.H, req.H)
		}
	}
	return sizes, total
}

// RequiredSize aggregates the children's requirements.
func (s *StackView) RequiredSize(constraint Size) Size {
	_, total := s.measure(constraint)
	return total
}

// Layout grants each child its requirement plus a weighted share of the
// leftover main-axis space, stretched to the full cross-axis size.
func (s *StackView) Layout(size Size) {
	s.BaseView.Layout(size)
	sizes, total := s.measure(size)

	spare := size.H - total.H
	if s.orient == Horizontal {
		spare = size.W - total.W
	}
	extra := s.distribute(spare)

	var cursor int
	for i := range s.children {
		c := &s.children[i]
		if s.orient == Vertical {
			c.size = Size{size.W, sizes[i].H + extra[i]}
			c.offset = Pos{0, cursor}
			cursor += c.size.H
		} else {
			c.size = Size{sizes[i].W + extra[i], size.H}
			c.offset = Pos{cursor, 0}
			cursor += c.size.W
		}
		c.view.Layout(c.size)
	}
}

// distribute splits spare cells across children proportionally to their
// weights, handing remainder cells to the earliest weighted children.
func (s *StackView) distribute(spare int) []int {
	out := make([]int, len(s.children))
	if spare <= 0 {
		return out
	}
	totalWeight := 0
	for _, c := range s.children {
		totalWeight += c.weight
	}
	if totalWeight == 0 {
		return out
	}
	remaining := spare
	for i, c := range s.children {
		share := spare * c.weight / totalWeight
		out[i] = share
		remaining -= share
	}
	for i := range s.children {
		if remaining == 0 {
			break
		}
		if s.children[i].weight > 0 {
			out[i]++
			remaining--
		}
	}
	return out
}

// Draw renders each child through a painter cropped to its slot. The
// focused flag is forwarded only along the focus path.
func (s *StackView) Draw(p *Painter) {
	for i := range s.children {
		c := &s.children[i]
		cp := p.Cropped(RectOf(c.offset, c.size)).WithFocus(p.Focused() && i == s.focused)
		c.view.Draw(&cp)
	}
}

// TakeFocus accepts focus if any child does, scanning in traversal order.
func (s *StackView) TakeFocus(dir FocusDirection) bool {
	if dir == FocusBackward {
		for i := len(s.children) - 1; i >= 0; i-- {
			if s.children[i].view.TakeFocus(dir) {
				return true
			}
		}
		return false
	}
	for i := range s.children {
		if s.children[i].view.TakeFocus(dir) {
			return true
		}
	}
	return false
}

// ImportantArea returns the focused child's important area, translated
// into the stack's coordinates.
func (s *StackView) ImportantArea(size Size) Rect {
	if s.focused < 0 || s.focused >= len(s.children) {
		return Rect{0, 0, size.W, size.H}
	}
	c := s.children[s.focused]
	return c.view.ImportantArea(c.size).Translate(c.offset.X, c.offset.Y)
}
