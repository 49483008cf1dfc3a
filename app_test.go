package cursive

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeBackend plays a script of poll steps and records what the driver
// painted. A step returning (nil, nil) mimics a poll timeout expiring.
type fakeBackend struct {
	buf     *Buffer
	script  []func() (Event, error)
	initErr error
	inited  bool
	finied  bool
	flushes int
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{buf: NewBuffer(w, h)}
}

func (f *fakeBackend) step(fn func() (Event, error)) {
	f.script = append(f.script, fn)
}

func (f *fakeBackend) event(ev Event) {
	f.step(func() (Event, error) { return ev, nil })
}

func (f *fakeBackend) Init() error {
	if f.initErr != nil {
		return f.initErr
	}
	f.inited = true
	return nil
}

func (f *fakeBackend) Fini() { f.finied = true }

func (f *fakeBackend) Size() Size { return f.buf.Size() }

func (f *fakeBackend) SetCell(x, y int, c Cell) { f.buf.SetCell(x, y, c) }

func (f *fakeBackend) Clear() { f.buf.Clear() }

func (f *fakeBackend) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeBackend) PollEvent(timeout time.Duration) (Event, error) {
	if len(f.script) == 0 {
		return QuitEvent{}, nil
	}
	fn := f.script[0]
	f.script = f.script[1:]
	return fn()
}

// recorder is a focusable leaf that records every event it sees.
type recorder struct {
	BaseView
	events  []Event
	consume bool
}

func (r *recorder) OnEvent(ev Event) EventResult {
	r.events = append(r.events, ev)
	if r.consume {
		return Consume()
	}
	return Ignore()
}

func (r *recorder) TakeFocus(dir FocusDirection) bool { return true }

func TestAppRun(t *testing.T) {
	t.Run("QuitEventStopsLoop", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewTextView("hello"), false).FullScreen()
		b.event(Char('x'))
		b.event(QuitEvent{})

		if err := app.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !b.inited || !b.finied {
			t.Error("backend lifecycle not honored")
		}
		if b.flushes == 0 {
			t.Error("nothing was flushed")
		}
	})

	t.Run("DrawsActiveScreen", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewTextView("hello"), false).FullScreen()
		b.event(QuitEvent{})

		if err := app.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if got := b.buf.Line(0); got != "hello" {
			t.Errorf("Line(0) = %q, want %q", got, "hello")
		}
	})

	t.Run("CtrlCQuits", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		b.event(Ctrl('c'))
		b.event(Char('x')) // never reached

		if err := app.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(b.script) != 1 {
			t.Errorf("loop kept polling after quit: %d steps left", len(b.script))
		}
	})

	t.Run("InitFailureWrapped", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		b.initErr = errors.New("no tty")
		app := New(b)
		err := app.Run()
		if err == nil || !errors.Is(err, b.initErr) {
			t.Errorf("err = %v, want wrapped init error", err)
		}
	})

	t.Run("PollFailureFatal", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		pollErr := errors.New("read failed")
		b.step(func() (Event, error) { return nil, pollErr })
		err := app.Run()
		if err == nil || !errors.Is(err, pollErr) {
			t.Errorf("err = %v, want wrapped poll error", err)
		}
		if !b.finied {
			t.Error("backend not restored after poll failure")
		}
	})

	t.Run("ResizeRelayouts", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewTextView("wide line of text"), false).FullScreen()
		b.event(ResizeEvent{Size: Size{8, 3}})
		b.event(QuitEvent{})

		if err := app.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if got := app.Screen().Top().size; got != (Size{8, 3}) {
			t.Errorf("layer size = %+v, want 8x3", got)
		}
	})
}

func TestProcessEvent(t *testing.T) {
	t.Run("PreHandlerBeatsView", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		rec := &recorder{consume: true}
		app.Screen().PushLayer(rec, false)
		app.HandleBefore(Char('a'), func(*App) {})

		if got := app.ProcessEvent(Char('a')); got != OutcomeConsumedByHandler {
			t.Errorf("outcome = %v, want handler", got)
		}
		if len(rec.events) != 0 {
			t.Error("view saw an event a pre handler consumed")
		}
	})

	t.Run("ViewBeatsPostHandler", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		rec := &recorder{consume: true}
		app.Screen().PushLayer(rec, false)
		handled := false
		app.Handle(Char('a'), func(*App) { handled = true })

		if got := app.ProcessEvent(Char('a')); got != OutcomeConsumedByView {
			t.Errorf("outcome = %v, want view", got)
		}
		app.runCallbacks()
		if handled {
			t.Error("post handler ran for a consumed event")
		}
	})

	t.Run("PostHandlerOnIgnored", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewTextView("x"), false)
		handled := false
		app.Handle(Char('a'), func(*App) { handled = true })

		if got := app.ProcessEvent(Char('a')); got != OutcomeConsumedByHandler {
			t.Errorf("outcome = %v, want handler", got)
		}
		app.runCallbacks()
		if !handled {
			t.Error("post handler did not run")
		}
	})

	t.Run("ModalBlocksPostHandlers", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewTextView("base"), false)
		app.Screen().PushLayer(NewTextView("dialog"), true)
		handled := false
		app.Handle(Char('a'), func(*App) { handled = true })

		if got := app.ProcessEvent(Char('a')); got != OutcomeDropped {
			t.Errorf("outcome = %v, want dropped", got)
		}
		app.runCallbacks()
		if handled {
			t.Error("post handler ran under a modal layer")
		}
	})

	t.Run("ModalKeepsBaseLayerUntouched", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		base := &recorder{consume: true}
		app.Screen().PushLayer(base, false)
		app.Screen().PushLayer(NewTextView("dialog"), true)

		app.ProcessEvent(Char('a'))
		if len(base.events) != 0 {
			t.Error("base layer received input while covered by a modal")
		}
	})

	t.Run("DroppedLeavesFocusUnchanged", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewVStack(NewButton("a", nil), NewButton("b", nil)), false)
		before := app.Screen().FocusPath()

		if got := app.ProcessEvent(Char('q')); got != OutcomeDropped {
			t.Errorf("outcome = %v, want dropped", got)
		}
		if diff := cmp.Diff(before, app.Screen().FocusPath()); diff != "" {
			t.Errorf("focus path changed (-want +got):\n%s", diff)
		}
	})
}

func TestPeriodic(t *testing.T) {
	t.Run("FiresOncePerInterval", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)

		clock := time.Unix(0, 0)
		app.now = func() time.Time { return clock }

		fired := 0
		app.AddPeriodic(time.Second, func(*App) { fired++ })

		// Two timeouts a second apart, then quit.
		for i := 0; i < 2; i++ {
			b.step(func() (Event, error) {
				clock = clock.Add(time.Second)
				return nil, nil
			})
		}
		b.event(QuitEvent{})

		if err := app.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if fired != 2 {
			t.Errorf("fired %d times, want 2", fired)
		}
	})

	t.Run("TickOfferedToTree", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		rec := &recorder{}
		app.Screen().PushLayer(rec, false)

		clock := time.Unix(0, 0)
		app.now = func() time.Time { return clock }
		app.AddPeriodic(time.Second, func(*App) {})

		b.step(func() (Event, error) {
			clock = clock.Add(time.Second)
			return nil, nil
		})
		b.event(QuitEvent{})

		if err := app.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		ticks := 0
		for _, ev := range rec.events {
			if _, ok := ev.(TickEvent); ok {
				ticks++
			}
		}
		if ticks != 1 {
			t.Errorf("tree saw %d ticks, want 1", ticks)
		}
	})

	t.Run("PollTimeoutTracksDeadline", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		clock := time.Unix(0, 0)
		app.now = func() time.Time { return clock }

		if got := app.pollTimeout(); got >= 0 {
			t.Errorf("timeout = %v, want negative (block) with no timers", got)
		}
		app.AddPeriodic(time.Second, func(*App) {})
		if got := app.pollTimeout(); got != time.Second {
			t.Errorf("timeout = %v, want 1s", got)
		}
		clock = clock.Add(2 * time.Second)
		if got := app.pollTimeout(); got != 0 {
			t.Errorf("timeout = %v, want 0 when overdue", got)
		}
	})
}

func TestScreens(t *testing.T) {
	t.Run("SwitchAndBack", func(t *testing.T) {
		b := newFakeBackend(20, 5)
		app := New(b)
		app.Screen().PushLayer(NewTextView("main"), false)
		other := app.AddScreen("settings")
		other.PushLayer(NewTextView("settings"), false)

		if !app.SwitchScreen("settings") {
			t.Fatal("switch failed")
		}
		if app.Screen() != other {
			t.Error("active screen did not change")
		}
		if app.SwitchScreen("nope") {
			t.Error("switching to a missing screen should fail")
		}
		if got := app.ActiveScreenName(); got != "settings" {
			t.Errorf("active = %q, want settings", got)
		}
	})

	t.Run("AddIsIdempotent", func(t *testing.T) {
		app := New(newFakeBackend(20, 5))
		a := app.AddScreen("x")
		if app.AddScreen("x") != a {
			t.Error("AddScreen created a duplicate")
		}
	})

	t.Run("CannotRemoveActive", func(t *testing.T) {
		app := New(newFakeBackend(20, 5))
		if app.RemoveScreen("main") {
			t.Error("removed the active screen")
		}
		app.AddScreen("x")
		if !app.RemoveScreen("x") {
			t.Error("failed to remove an inactive screen")
		}
	})

	t.Run("InactiveScreenKeepsState", func(t *testing.T) {
		app := New(newFakeBackend(20, 5))
		s := app.AddScreen("x")
		s.PushLayer(NewVStack(NewButton("a", nil), NewButton("b", nil)), false)
		s.FocusNext()
		want := s.FocusPath()

		app.SwitchScreen("x")
		app.SwitchScreen("main")
		app.SwitchScreen("x")
		if diff := cmp.Diff(want, s.FocusPath()); diff != "" {
			t.Errorf("focus path (-want +got):\n%s", diff)
		}
	})
}

func TestQueueCallback(t *testing.T) {
	t.Run("DrainIsFIFOAndReentrant", func(t *testing.T) {
		app := New(newFakeBackend(20, 5))
		var order []int
		app.QueueCallback(func(a *App) {
			order = append(order, 1)
			a.QueueCallback(func(*App) { order = append(order, 3) })
		})
		app.QueueCallback(func(*App) { order = append(order, 2) })
		app.runCallbacks()

		if diff := cmp.Diff([]int{1, 2, 3}, order); diff != "" {
			t.Errorf("order (-want +got):\n%s", diff)
		}
	})

	t.Run("NilCallbackSkipped", func(t *testing.T) {
		app := New(newFakeBackend(20, 5))
		app.QueueCallback(nil)
		app.runCallbacks()
	})
}
