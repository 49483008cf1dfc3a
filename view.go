package cursive

import (
	"fmt"
	"os"
)

// debugLayout enables layout-consistency diagnostics on stderr.
var debugLayout = os.Getenv("CURSIVE_DEBUG_LAYOUT") != ""

// FocusDirection is the traversal direction of a focus request.
type FocusDirection int

const (
	FocusNone FocusDirection = iota
	FocusForward
	FocusBackward
)

// View is the contract every tree node satisfies. Views compose into trees
// solely through this interface; a parent needs no knowledge of its
// children's concrete types.
type View interface {
	// RequiredSize reports the size the view needs under the offered
	// constraint. It must be a pure function of the view's content and the
	// constraint, never exceed the constraint on either axis, and be
	// monotonic non-decreasing in both axes.
	RequiredSize(constraint Size) Size

	// Layout informs the view of the size it was actually granted, which
	// may exceed its requirement when a parent stretches children. The
	// view repositions its own children within this size. Called once per
	// refresh cycle for any view whose size may have changed.
	Layout(size Size)

	// Draw renders the view through the painter. Drawing outside the
	// granted size is silently clipped, never an error.
	Draw(p *Painter)

	// OnEvent handles an input event delivered to this view.
	OnEvent(Event) EventResult

	// TakeFocus reports whether the view accepts focus for a traversal in
	// the given direction.
	TakeFocus(dir FocusDirection) bool

	// ImportantArea returns the sub-rectangle, in local coordinates, that
	// scrolling ancestors should keep visible.
	ImportantArea(size Size) Rect
}

// Composite is implemented by views holding children the focus machinery
// may traverse. Parents still own their children and remain responsible
// for forwarding layout, draw and event calls to whichever subset they
// choose; Composite only exposes the structure.
type Composite interface {
	View

	// ChildCount returns the number of children.
	ChildCount() int

	// Child returns the i-th child.
	Child(i int) View

	// SetFocusedChild records which child lies on the active focus path
	// (-1 for none). Called by the screen whenever the path changes, so
	// the view can render and route accordingly.
	SetFocusedChild(i int)
}

// BaseView provides default implementations of the View contract. Embed it
// and override what the view actually needs.
type BaseView struct {
	size Size
}

// RequiredSize returns a minimal 1x1 requirement clamped to the constraint.
func (b *BaseView) RequiredSize(constraint Size) Size {
	return Size{1, 1}.Min(constraint)
}

// Layout records the granted size.
func (b *BaseView) Layout(size Size) {
	b.size = size
}

// Size returns the size granted by the last Layout call.
func (b *BaseView) Size() Size {
	return b.size
}

// Draw does nothing.
func (b *BaseView) Draw(p *Painter) {}

// OnEvent ignores every event.
func (b *BaseView) OnEvent(Event) EventResult {
	return Ignore()
}

// TakeFocus declines focus.
func (b *BaseView) TakeFocus(dir FocusDirection) bool {
	return false
}

// ImportantArea returns the whole granted area.
func (b *BaseView) ImportantArea(size Size) Rect {
	return Rect{0, 0, size.W, size.H}
}

// checkedRequiredSize asks v for its requirement and clamps it defensively
// to the constraint. A requirement exceeding its constraint is a
// programming error in the view, not a runtime fault; it must not corrupt
// the rest of the tree's layout.
func checkedRequiredSize(v View, constraint Size) Size {
	req := v.RequiredSize(constraint)
	if !req.Fits(constraint) {
		if debugLayout {
			fmt.Fprintf(os.Stderr, "cursive: layout: %T required %+v under constraint %+v\n", v, req, constraint)
		}
		req = req.Min(constraint)
	}
	return req
}

// resolvePath follows a child-index path from root and returns the view it
// designates, or nil if any index is out of bounds or crosses a leaf.
func resolvePath(root View, path []int) View {
	v := root
	for _, i := range path {
		c, ok := v.(Composite)
		if !ok || i < 0 || i >= c.ChildCount() {
			return nil
		}
		v = c.Child(i)
	}
	return v
}

// leafPaths collects the paths of all leaf views under root in depth-first
// order. Composite nodes are traversed, not collected; focus always rests
// on a leaf.
func leafPaths(root View) [][]int {
	var out [][]int
	var walk func(v View, prefix []int)
	walk = func(v View, prefix []int) {
		c, ok := v.(Composite)
		if !ok {
			out = append(out, append([]int(nil), prefix...))
			return
		}
		for i := 0; i < c.ChildCount(); i++ {
			walk(c.Child(i), append(prefix, i))
		}
	}
	walk(root, nil)
	return out
}

// pathEqual reports whether two focus paths are identical.
func pathEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
