package cursive

// Event is a semantic input event. The set of implementations is closed:
// backends map their raw protocol onto exactly these types and no
// backend-specific codes ever reach view code.
//
// All event types are comparable structs, so an Event value can key a
// handler map (see App.Handle).
type Event interface {
	event()
}

// Key identifies a named, non-printable key.
type Key int16

const (
	KeyRune Key = iota // printable character, carried in KeyEvent.Rune
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// ModMask is a bitmask of key modifiers.
type ModMask uint8

const (
	ModShift ModMask = 1 << iota
	ModAlt
	ModCtrl
)

// KeyEvent is a key press: either a printable rune (Key == KeyRune) or a
// named key, with modifiers.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mod  ModMask
}

func (KeyEvent) event() {}

// Char builds the event for a printable character.
func Char(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r}
}

// KeyPress builds the event for a named key.
func KeyPress(k Key) KeyEvent {
	return KeyEvent{Key: k}
}

// Ctrl builds the event for a control chord on a letter, e.g. Ctrl('c').
func Ctrl(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r, Mod: ModCtrl}
}

// MouseButton identifies which button a mouse event concerns.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction is the kind of mouse event.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag
)

// MouseEvent is a mouse press, release or drag at a terminal position.
type MouseEvent struct {
	Pos    Pos
	Button MouseButton
	Action MouseAction
	Mod    ModMask
}

func (MouseEvent) event() {}

// ResizeEvent reports a new terminal size.
type ResizeEvent struct {
	Size Size
}

func (ResizeEvent) event() {}

// TickEvent is the periodic-refresh notification, emitted by the runtime
// driver when a periodic callback interval expires.
type TickEvent struct{}

func (TickEvent) event() {}

// QuitEvent is the quit sentinel. It is dispatched like any other event;
// the runtime driver additionally observes it and terminates its loop.
type QuitEvent struct{}

func (QuitEvent) event() {}

// Callback is a deferred unit of work bound to the running App. Callbacks
// returned from event dispatch are queued and executed by the runtime
// driver after dispatch completes, so a view never mutates the tree it is
// embedded in from inside its own event handler.
type Callback func(*App)

// EventResult is the outcome of offering an event to a view: ignored, or
// consumed with an optional deferred callback.
type EventResult struct {
	Consumed bool
	Callback Callback
}

// Ignore reports that the view did not handle the event.
func Ignore() EventResult {
	return EventResult{}
}

// Consume reports that the view handled the event.
func Consume() EventResult {
	return EventResult{Consumed: true}
}

// ConsumeWith reports that the view handled the event and requests cb to
// run once dispatch completes.
func ConsumeWith(cb Callback) EventResult {
	return EventResult{Consumed: true, Callback: cb}
}
