// Package backend provides terminal adapters satisfying the cursive
// Backend contract: one over tcell, one speaking raw ANSI escape codes.
// Applications pick one at startup; view code never sees the difference.
package backend

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mimame/cursive"
)

// Tcell adapts a tcell.Screen to the cursive Backend contract.
type Tcell struct {
	screen  tcell.Screen
	events  chan tcell.Event
	done    chan struct{}
	buttons tcell.ButtonMask
}

// NewTcell creates an adapter over the terminal's default tcell screen.
func NewTcell() (*Tcell, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell screen: %w", err)
	}
	return NewTcellFor(s), nil
}

// NewTcellFor wraps an existing tcell screen. Tests pass a
// tcell.SimulationScreen here.
func NewTcellFor(s tcell.Screen) *Tcell {
	return &Tcell{screen: s}
}

// Init initializes the screen and starts the event pump.
func (t *Tcell) Init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("tcell init: %w", err)
	}
	t.screen.EnableMouse()
	t.events = make(chan tcell.Event, 16)
	t.done = make(chan struct{})
	go t.screen.ChannelEvents(t.events, t.done)
	return nil
}

// Fini stops the event pump and restores the terminal.
func (t *Tcell) Fini() {
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	t.screen.Fini()
}

// Size returns the terminal dimensions.
func (t *Tcell) Size() cursive.Size {
	w, h := t.screen.Size()
	return cursive.Size{W: w, H: h}
}

// SetCell stages a cell. Continuation cells of wide characters are
// skipped; tcell manages those itself.
func (t *Tcell) SetCell(x, y int, c cursive.Cell) {
	if c.Rune == 0 {
		return
	}
	t.screen.SetContent(x, y, c.Rune, nil, toTcellStyle(c.Style))
}

// Clear stages a blank screen.
func (t *Tcell) Clear() {
	t.screen.Clear()
}

// Flush presents the staged cells.
func (t *Tcell) Flush() error {
	t.screen.Show()
	return nil
}

// PollEvent waits for the next translatable event or the timeout.
func (t *Tcell) PollEvent(timeout time.Duration) (cursive.Event, error) {
	var timer <-chan time.Time
	if timeout >= 0 {
		timer = time.After(timeout)
	}
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return nil, errors.New("terminal event stream closed")
			}
			out, err := t.translate(ev)
			if err != nil {
				return nil, err
			}
			if out != nil {
				return out, nil
			}
			// Untranslatable event kind; keep waiting.
		case <-timer:
			return nil, nil
		}
	}
}

func (t *Tcell) translate(ev tcell.Event) (cursive.Event, error) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return translateKey(e), nil
	case *tcell.EventMouse:
		return t.translateMouse(e), nil
	case *tcell.EventResize:
		w, h := e.Size()
		return cursive.ResizeEvent{Size: cursive.Size{W: w, H: h}}, nil
	case *tcell.EventError:
		return nil, fmt.Errorf("tcell: %w", e)
	}
	return nil, nil
}

func translateKey(e *tcell.EventKey) cursive.Event {
	mod := translateMods(e.Modifiers())
	switch e.Key() {
	case tcell.KeyRune:
		return cursive.KeyEvent{Key: cursive.KeyRune, Rune: e.Rune(), Mod: mod}
	case tcell.KeyEnter:
		return cursive.KeyEvent{Key: cursive.KeyEnter, Mod: mod}
	case tcell.KeyEsc:
		return cursive.KeyEvent{Key: cursive.KeyEscape, Mod: mod}
	case tcell.KeyTab:
		return cursive.KeyEvent{Key: cursive.KeyTab, Mod: mod}
	case tcell.KeyBacktab:
		return cursive.KeyEvent{Key: cursive.KeyBacktab, Mod: mod}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return cursive.KeyEvent{Key: cursive.KeyBackspace, Mod: mod}
	case tcell.KeyDelete:
		return cursive.KeyEvent{Key: cursive.KeyDelete, Mod: mod}
	case tcell.KeyInsert:
		return cursive.KeyEvent{Key: cursive.KeyInsert, Mod: mod}
	case tcell.KeyHome:
		return cursive.KeyEvent{Key: cursive.KeyHome, Mod: mod}
	case tcell.KeyEnd:
		return cursive.KeyEvent{Key: cursive.KeyEnd, Mod: mod}
	case tcell.KeyPgUp:
		return cursive.KeyEvent{Key: cursive.KeyPgUp, Mod: mod}
	case tcell.KeyPgDn:
		return cursive.KeyEvent{Key: cursive.KeyPgDn, Mod: mod}
	case tcell.KeyUp:
		return cursive.KeyEvent{Key: cursive.KeyUp, Mod: mod}
	case tcell.KeyDown:
		return cursive.KeyEvent{Key: cursive.KeyDown, Mod: mod}
	case tcell.KeyLeft:
		return cursive.KeyEvent{Key: cursive.KeyLeft, Mod: mod}
	case tcell.KeyRight:
		return cursive.KeyEvent{Key: cursive.KeyRight, Mod: mod}
	}
	if k := e.Key(); k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return cursive.KeyEvent{Key: cursive.KeyF1 + cursive.Key(k-tcell.KeyF1), Mod: mod}
	}
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return cursive.KeyEvent{Key: cursive.KeyRune, Rune: rune('a' + k - tcell.KeyCtrlA), Mod: mod | cursive.ModCtrl}
	}
	return nil
}

func translateMods(m tcell.ModMask) cursive.ModMask {
	var out cursive.ModMask
	if m&tcell.ModShift != 0 {
		out |= cursive.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= cursive.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		out |= cursive.ModCtrl
	}
	return out
}

// translateMouse derives press/release/drag from tcell's button state
// snapshots by diffing against the previous snapshot.
func (t *Tcell) translateMouse(e *tcell.EventMouse) cursive.Event {
	x, y := e.Position()
	pos := cursive.Pos{X: x, Y: y}
	mod := translateMods(e.Modifiers())
	cur := e.Buttons()
	prev := t.buttons
	t.buttons = cur & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	switch {
	case cur&tcell.WheelUp != 0:
		return cursive.MouseEvent{Pos: pos, Button: cursive.MouseWheelUp, Action: cursive.MousePress, Mod: mod}
	case cur&tcell.WheelDown != 0:
		return cursive.MouseEvent{Pos: pos, Button: cursive.MouseWheelDown, Action: cursive.MousePress, Mod: mod}
	}

	for _, b := range []struct {
		mask tcell.ButtonMask
		btn  cursive.MouseButton
	}{
		{tcell.Button1, cursive.MouseLeft},
		{tcell.Button2, cursive.MouseMiddle},
		{tcell.Button3, cursive.MouseRight},
	} {
		was, is := prev&b.mask != 0, cur&b.mask != 0
		switch {
		case is && !was:
			return cursive.MouseEvent{Pos: pos, Button: b.btn, Action: cursive.MousePress, Mod: mod}
		case !is && was:
			return cursive.MouseEvent{Pos: pos, Button: b.btn, Action: cursive.MouseRelease, Mod: mod}
		case is && was:
			return cursive.MouseEvent{Pos: pos, Button: b.btn, Action: cursive.MouseDrag, Mod: mod}
		}
	}
	return nil
}

func toTcellStyle(s cursive.Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(toTcellColor(s.FG)).
		Background(toTcellColor(s.BG))
	if s.Attr.Has(cursive.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attr.Has(cursive.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attr.Has(cursive.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attr.Has(cursive.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attr.Has(cursive.AttrBlink) {
		st = st.Blink(true)
	}
	if s.Attr.Has(cursive.AttrInverse) {
		st = st.Reverse(true)
	}
	if s.Attr.Has(cursive.AttrStrikethrough) {
		st = st.StrikeThrough(true)
	}
	return st
}

func toTcellColor(c cursive.Color) tcell.Color {
	switch c.Mode {
	case cursive.Color16, cursive.Color256:
		return tcell.PaletteColor(int(c.Index))
	case cursive.ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return tcell.ColorDefault
}
