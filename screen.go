package cursive

// Layer is one entry in a Screen's stack: a root view plus layering
// metadata. Layers are floating (centered on their required size) unless
// marked full-screen.
type Layer struct {
	view       View
	modal      bool
	fullScreen bool
	dismiss    bool

	focus  []int // focus path within this layer
	size   Size  // granted size at last layout
	offset Pos   // placement within the screen
}

// View returns the layer's root view.
func (l *Layer) View() View {
	return l.view
}

// IsModal returns true if the layer absorbs all input while present.
func (l *Layer) IsModal() bool {
	return l.modal
}

// FullScreen makes the layer cover the whole terminal instead of floating
// centered at its required size. Returns the layer for chaining.
func (l *Layer) FullScreen() *Layer {
	l.fullScreen = true
	return l
}

// DismissOnIgnore makes any key or mouse event the layer's tree ignores
// pop the layer (the pop runs as a deferred callback, after dispatch).
// Returns the layer for chaining.
func (l *Layer) DismissOnIgnore() *Layer {
	l.dismiss = true
	return l
}

// Screen owns an ordered stack of layers and the active focus path. Focus
// state is kept per layer, so popping a layer restores the focus path the
// layer below had when it was covered.
//
// An application may own several screens (see App.AddScreen); each keeps
// independent layer and focus state.
type Screen struct {
	layers []*Layer
	size   Size
}

// NewScreen creates an empty screen.
func NewScreen() *Screen {
	return &Screen{}
}

// PushLayer pushes a view as the new topmost layer and seeks initial
// focus inside it. Modal layers absorb all input while present: events
// their tree ignores are dropped instead of reaching handlers below.
func (s *Screen) PushLayer(v View, modal bool) *Layer {
	l := &Layer{view: v, modal: modal}
	s.layers = append(s.layers, l)
	s.seekInitialFocus(l)
	return l
}

// PopLayer removes the topmost layer and returns its root view, or nil if
// the screen is empty. A screen with no layers is valid and draws blank.
func (s *Screen) PopLayer() View {
	if len(s.layers) == 0 {
		return nil
	}
	l := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	return l.view
}

// Layers returns the layer stack, bottom first.
func (s *Screen) Layers() []*Layer {
	return append([]*Layer(nil), s.layers...)
}

// Top returns the topmost layer, or nil if the screen is empty.
func (s *Screen) Top() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// FocusPath returns a copy of the active focus path: the child-index
// sequence from the topmost layer's root down to the focused leaf. An
// empty path means no view holds focus.
func (s *Screen) FocusPath() []int {
	l := s.Top()
	if l == nil {
		return nil
	}
	return append([]int(nil), l.focus...)
}

// SetFocusPath explicitly focuses the view at the given path in the
// topmost layer. Returns false (leaving focus unchanged) if the path does
// not resolve to a leaf view accepting focus.
func (s *Screen) SetFocusPath(path []int) bool {
	l := s.Top()
	if l == nil {
		return false
	}
	v := resolvePath(l.view, path)
	if v == nil {
		return false
	}
	if _, ok := v.(Composite); ok {
		return false
	}
	if !v.TakeFocus(FocusNone) {
		return false
	}
	s.applyFocus(l, path)
	return true
}

// FocusNext moves focus to the next focusable leaf in depth-first order,
// wrapping around at the end of the tree. With no focusable target the
// focus is left unchanged; repeated calls from the same state always
// produce the same path.
func (s *Screen) FocusNext() bool {
	return s.moveFocus(FocusForward)
}

// FocusPrev moves focus to the previous focusable leaf in depth-first
// order, wrapping around at the start of the tree.
func (s *Screen) FocusPrev() bool {
	return s.moveFocus(FocusBackward)
}

func (s *Screen) moveFocus(dir FocusDirection) bool {
	l := s.Top()
	if l == nil {
		return false
	}
	paths := leafPaths(l.view)
	n := len(paths)
	if n == 0 {
		return false
	}
	cur := -1
	for i, p := range paths {
		if pathEqual(p, l.focus) {
			cur = i
			break
		}
	}
	step := 1
	if dir == FocusBackward {
		step = -1
		if cur == -1 {
			cur = n
		}
	}
	for k := 1; k <= n; k++ {
		i := ((cur+step*k)%n + n) % n
		if resolvePath(l.view, paths[i]).TakeFocus(dir) {
			s.applyFocus(l, paths[i])
			return true
		}
	}
	return false
}

// seekInitialFocus points the layer's focus at its first focusable leaf.
func (s *Screen) seekInitialFocus(l *Layer) {
	for _, path := range leafPaths(l.view) {
		if resolvePath(l.view, path).TakeFocus(FocusForward) {
			s.applyFocus(l, path)
			return
		}
	}
	l.focus = nil
}

// applyFocus atomically replaces the layer's focus path and synchronizes
// the Composite focused-child markers along both the old and new paths.
func (s *Screen) applyFocus(l *Layer, path []int) {
	clearFocusMarks(l.view, l.focus)
	v := l.view
	for _, i := range path {
		c, ok := v.(Composite)
		if !ok {
			break
		}
		c.SetFocusedChild(i)
		v = c.Child(i)
	}
	l.focus = append([]int(nil), path...)
}

// clearFocusMarks walks as far down the path as the tree still allows,
// resetting focused-child markers. The path may be stale after a tree
// mutation; the walk stops at the first invalid index.
func clearFocusMarks(root View, path []int) {
	v := root
	for _, i := range path {
		c, ok := v.(Composite)
		if !ok {
			return
		}
		c.SetFocusedChild(-1)
		if i < 0 || i >= c.ChildCount() {
			return
		}
		v = c.Child(i)
	}
}

// ValidateFocus re-checks the active focus path after the tree may have
// been mutated by an applied callback. An invalidated path is recomputed
// by seeking the nearest focusable leaf (first at or after the old path in
// depth-first order, then before it); if none exists the screen becomes
// unfocused, which is a valid state.
func (s *Screen) ValidateFocus() {
	l := s.Top()
	if l == nil {
		return
	}
	if len(l.focus) == 0 {
		s.seekInitialFocus(l)
		return
	}
	if v := resolvePath(l.view, l.focus); v != nil {
		if _, composite := v.(Composite); !composite && v.TakeFocus(FocusNone) {
			s.applyFocus(l, l.focus)
			return
		}
	}
	old := l.focus
	clearFocusMarks(l.view, old)
	l.focus = nil
	paths := leafPaths(l.view)
	start := len(paths)
	for i, p := range paths {
		if !pathBefore(p, old) {
			start = i
			break
		}
	}
	for i := start; i < len(paths); i++ {
		if resolvePath(l.view, paths[i]).TakeFocus(FocusForward) {
			s.applyFocus(l, paths[i])
			return
		}
	}
	for i := start - 1; i >= 0; i-- {
		if resolvePath(l.view, paths[i]).TakeFocus(FocusBackward) {
			s.applyFocus(l, paths[i])
			return
		}
	}
}

// pathBefore reports whether a comes strictly before b in depth-first
// order.
func pathBefore(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Layout offers the terminal size as the constraint to every layer and
// pushes the granted sizes down the trees. Full-screen layers are granted
// the whole size; floating layers are granted their requirement and
// centered. A requirement exceeding the terminal is granted anyway and
// clipped at draw time.
func (s *Screen) Layout(size Size) {
	s.size = size
	for _, l := range s.layers {
		granted := size
		if !l.fullScreen {
			granted = l.view.RequiredSize(size)
		}
		l.size = granted
		l.offset = Pos{
			X: max(0, (size.W-granted.W)/2),
			Y: max(0, (size.H-granted.H)/2),
		}
		l.view.Layout(granted)
	}
}

// Draw renders the layers back to front, unconditionally in stack order.
// Layers above the bottom clear their own area first so a floating dialog
// is opaque over what it covers. Only the topmost layer draws focused.
func (s *Screen) Draw(p *Painter) {
	for i, l := range s.layers {
		lp := p.Cropped(RectOf(l.offset, l.size)).WithFocus(i == len(s.layers)-1)
		if i > 0 {
			lp.Fill(' ')
		}
		l.view.Draw(&lp)
	}
}

// Dispatch offers an event to the view at the end of the active focus
// path. With no focused view the event is offered to the topmost layer's
// root instead. An ignored event is not bubbled to ancestors; global
// handlers on the App are a separate mechanism with fixed precedence.
//
// Tab and Backtab the focused view ignores are the router's focus
// traversal keys and are always consumed. They act on the topmost layer,
// so traversal keeps working inside modal dialogs.
func (s *Screen) Dispatch(ev Event) EventResult {
	l := s.Top()
	if l == nil {
		return Ignore()
	}
	target := resolvePath(l.view, l.focus)
	if target == nil {
		target = l.view
	}
	res := target.OnEvent(ev)
	if res.Consumed {
		return res
	}
	if ke, ok := ev.(KeyEvent); ok {
		switch ke.Key {
		case KeyTab:
			s.FocusNext()
			return Consume()
		case KeyBacktab:
			s.FocusPrev()
			return Consume()
		}
	}
	if l.dismiss {
		switch ev.(type) {
		case KeyEvent, MouseEvent:
			return ConsumeWith(func(*App) { s.PopLayer() })
		}
	}
	return res
}
