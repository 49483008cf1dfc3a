package cursive

import (
	"fmt"
	"time"
)

// Outcome reports how an event dispatch concluded. Exactly one of the
// three applies to every processed event.
type Outcome uint8

const (
	// OutcomeDropped means no view or handler consumed the event. The
	// screen and focus state are left unchanged.
	OutcomeDropped Outcome = iota

	// OutcomeConsumedByView means the view tree consumed the event.
	OutcomeConsumedByView

	// OutcomeConsumedByHandler means a global handler consumed the event.
	OutcomeConsumedByHandler
)

type periodic struct {
	interval time.Duration
	next     time.Time
	fn       Callback
}

// App is the runtime driver: a single-threaded loop tying backend
// polling, event dispatch, deferred callbacks, layout and drawing
// together, one full cycle per wakeup.
//
// The view tree is mutated only by the layout pass and by queued
// callbacks the driver runs between dispatches; no view method blocks and
// all blocking happens in the backend's input wait.
type App struct {
	backend Backend
	screens map[string]*Screen
	active  string

	pre    map[Event]Callback
	post   map[Event]Callback
	queue  []Callback
	timers []*periodic

	running bool
	size    Size
	now     func() time.Time
}

// New creates an app over the given backend with one screen named "main".
// Ctrl-C is pre-bound to Quit; rebind it with HandleBefore if the
// application wants the chord itself.
func New(b Backend) *App {
	a := &App{
		backend: b,
		screens: map[string]*Screen{"main": NewScreen()},
		active:  "main",
		pre:     make(map[Event]Callback),
		post:    make(map[Event]Callback),
		now:     time.Now,
	}
	a.HandleBefore(Ctrl('c'), func(app *App) { app.Quit() })
	return a
}

// Screen returns the active screen.
func (a *App) Screen() *Screen {
	return a.screens[a.active]
}

// AddScreen creates (or returns) the named screen. Inactive screens keep
// their layer stacks and focus state but are neither laid out nor drawn.
func (a *App) AddScreen(name string) *Screen {
	if s, ok := a.screens[name]; ok {
		return s
	}
	s := NewScreen()
	a.screens[name] = s
	return s
}

// SwitchScreen makes the named screen the one receiving input and being
// drawn. Returns false if no such screen exists.
func (a *App) SwitchScreen(name string) bool {
	if _, ok := a.screens[name]; !ok {
		return false
	}
	a.active = name
	return true
}

// RemoveScreen destroys the named screen. The active screen cannot be
// removed; switch away first.
func (a *App) RemoveScreen(name string) bool {
	if name == a.active {
		return false
	}
	if _, ok := a.screens[name]; !ok {
		return false
	}
	delete(a.screens, name)
	return true
}

// ActiveScreenName returns the name of the active screen.
func (a *App) ActiveScreenName() string {
	return a.active
}

// HandleBefore binds a global handler checked before tree dispatch. A
// pre-tree handler takes priority over the focused view.
func (a *App) HandleBefore(ev Event, cb Callback) {
	a.pre[ev] = cb
}

// Handle binds a global handler checked after tree dispatch: it runs only
// for events the view tree ignored, and never while the topmost layer is
// modal (a modal layer absorbs unconsumed input).
func (a *App) Handle(ev Event, cb Callback) {
	a.post[ev] = cb
}

// AddPeriodic registers fn to run every interval while the loop is idle.
// Each expiry also offers a TickEvent to the view tree.
func (a *App) AddPeriodic(interval time.Duration, fn Callback) {
	a.timers = append(a.timers, &periodic{
		interval: interval,
		next:     a.now().Add(interval),
		fn:       fn,
	})
}

// QueueCallback queues work to run after the current dispatch, in the
// driver's next drain. This is the only sanctioned way to mutate the view
// tree in reaction to an event.
func (a *App) QueueCallback(cb Callback) {
	if cb != nil {
		a.queue = append(a.queue, cb)
	}
}

// Quit stops the run loop after the current cycle completes. There is no
// forced interruption of an in-progress dispatch.
func (a *App) Quit() {
	a.running = false
}

// ProcessEvent routes one event through the fixed precedence chain:
// pre-tree global handlers, then the focused view via the active screen,
// then post-tree global handlers. Handler callbacks and view callbacks are
// queued, not run inline.
func (a *App) ProcessEvent(ev Event) Outcome {
	if cb, ok := a.pre[ev]; ok {
		a.QueueCallback(cb)
		return OutcomeConsumedByHandler
	}
	scr := a.Screen()
	res := scr.Dispatch(ev)
	if res.Consumed {
		a.QueueCallback(res.Callback)
		return OutcomeConsumedByView
	}
	if top := scr.Top(); top != nil && top.IsModal() {
		return OutcomeDropped
	}
	if cb, ok := a.post[ev]; ok {
		a.QueueCallback(cb)
		return OutcomeConsumedByHandler
	}
	return OutcomeDropped
}

// Run starts the loop and blocks until Quit or a backend failure. Each
// cycle: wait for input (bounded by the next periodic deadline), dispatch,
// drain queued callbacks, re-validate focus, re-layout, redraw.
func (a *App) Run() error {
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("backend init: %w", err)
	}
	defer a.backend.Fini()

	a.running = true
	a.size = a.backend.Size()
	a.refresh()

	for a.running {
		ev, err := a.backend.PollEvent(a.pollTimeout())
		if err != nil {
			return fmt.Errorf("backend poll: %w", err)
		}
		if ev == nil {
			a.fireTimers()
		} else {
			if rs, ok := ev.(ResizeEvent); ok {
				a.size = rs.Size
			}
			a.ProcessEvent(ev)
			if _, ok := ev.(QuitEvent); ok {
				a.running = false
			}
		}
		a.runCallbacks()
		if a.running {
			a.refresh()
		}
	}
	return nil
}

// pollTimeout returns the time until the earliest periodic deadline, or a
// negative duration (block forever) when no periodic callback exists.
func (a *App) pollTimeout() time.Duration {
	if len(a.timers) == 0 {
		return -1
	}
	now := a.now()
	earliest := a.timers[0].next
	for _, t := range a.timers[1:] {
		if t.next.Before(earliest) {
			earliest = t.next
		}
	}
	d := earliest.Sub(now)
	if d < 0 {
		d = 0
	}
	return d
}

// fireTimers queues every due periodic callback and, if any fired, offers
// a TickEvent to the tree.
func (a *App) fireTimers() {
	now := a.now()
	fired := false
	for _, t := range a.timers {
		if !t.next.After(now) {
			a.QueueCallback(t.fn)
			t.next = now.Add(t.interval)
			fired = true
		}
	}
	if fired {
		a.ProcessEvent(TickEvent{})
	}
}

// runCallbacks drains the deferred work queue. Callbacks may queue further
// callbacks; those run in the same drain, in order.
func (a *App) runCallbacks() {
	for len(a.queue) > 0 {
		cb := a.queue[0]
		a.queue = a.queue[1:]
		cb(a)
	}
}

// refresh runs one layout and draw pass over the active screen.
func (a *App) refresh() {
	scr := a.Screen()
	scr.ValidateFocus()
	scr.Layout(a.size)
	a.backend.Clear()
	p := NewPainter(a.backend)
	scr.Draw(&p)
	a.backend.Flush()
}
