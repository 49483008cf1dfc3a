package cursive

// BoxView wraps a single child in a border with an optional title. It is
// the smallest compositing view: its entire job is deriving an inset,
// clipped painter for its child.
type BoxView struct {
	BaseView
	inner   View
	title   string
	style   Style // border style delta
	focused bool
}

// NewBoxView wraps the given view in a border.
func NewBoxView(title string, inner View) *BoxView {
	return &BoxView{inner: inner, title: title}
}

// SetBorderStyle sets a style delta applied to the border and title.
func (b *BoxView) SetBorderStyle(s Style) {
	b.style = s
}

// innerConstraint shrinks a constraint by the border on each side.
func innerConstraint(c Size) Size {
	return c.Shrink(2, 2)
}

// RequiredSize returns the child's requirement plus the border.
func (b *BoxView) RequiredSize(constraint Size) Size {
	req := checkedRequiredSize(b.inner, innerConstraint(constraint))
	return req.Grow(2, 2).Min(constraint)
}

// Layout grants the child everything inside the border.
func (b *BoxView) Layout(size Size) {
	b.BaseView.Layout(size)
	b.inner.Layout(size.Shrink(2, 2))
}

// Draw renders the border, then the child through a cropped painter.
func (b *BoxView) Draw(p *Painter) {
	sz := p.Size()
	bp := p.WithStyle(b.style)
	bp.Box(Rect{0, 0, sz.W, sz.H}, b.title)

	inner := sz.Shrink(2, 2)
	if inner.IsZero() {
		return
	}
	cp := p.Cropped(Rect{1, 1, inner.W, inner.H}).WithFocus(p.Focused() && b.focused)
	b.inner.Draw(&cp)
}

// ChildCount implements Composite.
func (b *BoxView) ChildCount() int {
	return 1
}

// Child implements Composite.
func (b *BoxView) Child(i int) View {
	return b.inner
}

// SetFocusedChild implements Composite.
func (b *BoxView) SetFocusedChild(i int) {
	b.focused = i == 0
}

// TakeFocus accepts focus if the child does.
func (b *BoxView) TakeFocus(dir FocusDirection) bool {
	return b.inner.TakeFocus(dir)
}

// ImportantArea returns the child's important area shifted past the border.
func (b *BoxView) ImportantArea(size Size) Rect {
	return b.inner.ImportantArea(size.Shrink(2, 2)).Translate(1, 1)
}
