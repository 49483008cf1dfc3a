package backend

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mimame/cursive"
)

// parse feeds input to the parser and collects the first n events.
func parse(t *testing.T, input string, n int) []cursive.Event {
	t.Helper()
	events := make(chan cursive.Event, 32)
	errs := make(chan error, 1)
	p := &inputParser{in: strings.NewReader(input), events: events, errs: errs}
	go p.run()

	var out []cursive.Event
	for len(out) < n {
		select {
		case ev := <-events:
			out = append(out, ev)
		case err := <-errs:
			t.Fatalf("parser error: %v", err)
		case <-time.After(time.Second):
			t.Fatalf("timed out with %d of %d events", len(out), n)
		}
	}
	return out
}

func TestInputParser(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []cursive.Event
	}{
		{"PlainRunes", "ab", []cursive.Event{cursive.Char('a'), cursive.Char('b')}},
		{"UTF8", "é漢", []cursive.Event{cursive.Char('é'), cursive.Char('漢')}},
		{"Enter", "\r", []cursive.Event{cursive.KeyPress(cursive.KeyEnter)}},
		{"Tab", "\t", []cursive.Event{cursive.KeyPress(cursive.KeyTab)}},
		{"Backspace", "\x7f", []cursive.Event{cursive.KeyPress(cursive.KeyBackspace)}},
		{"CtrlA", "\x01", []cursive.Event{cursive.Ctrl('a')}},
		{"LoneEscape", "\x1b", []cursive.Event{cursive.KeyPress(cursive.KeyEscape)}},
		{"ArrowUp", "\x1b[A", []cursive.Event{cursive.KeyPress(cursive.KeyUp)}},
		{"CtrlRight", "\x1b[1;5C", []cursive.Event{cursive.KeyEvent{Key: cursive.KeyRight, Mod: cursive.ModCtrl}}},
		{"Delete", "\x1b[3~", []cursive.Event{cursive.KeyPress(cursive.KeyDelete)}},
		{"PgDn", "\x1b[6~", []cursive.Event{cursive.KeyPress(cursive.KeyPgDn)}},
		{"Backtab", "\x1b[Z", []cursive.Event{cursive.KeyPress(cursive.KeyBacktab)}},
		{"SS3F1", "\x1bOP", []cursive.Event{cursive.KeyPress(cursive.KeyF1)}},
		{"SS3F4", "\x1bOS", []cursive.Event{cursive.KeyPress(cursive.KeyF4)}},
		{"SS3ArrowUp", "\x1bOA", []cursive.Event{cursive.KeyPress(cursive.KeyUp)}},
		{"SS3Home", "\x1bOH", []cursive.Event{cursive.KeyPress(cursive.KeyHome)}},
		{"SS3End", "\x1bOF", []cursive.Event{cursive.KeyPress(cursive.KeyEnd)}},
		{"SS3ThenRune", "\x1bOPx", []cursive.Event{cursive.KeyPress(cursive.KeyF1), cursive.Char('x')}},
		{"F5", "\x1b[15~", []cursive.Event{cursive.KeyPress(cursive.KeyF5)}},
		{"AltX", "\x1bx", []cursive.Event{cursive.KeyEvent{Key: cursive.KeyRune, Rune: 'x', Mod: cursive.ModAlt}}},
		{"EscapeThenRune", "\x1bq", []cursive.Event{cursive.KeyEvent{Key: cursive.KeyRune, Rune: 'q', Mod: cursive.ModAlt}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input, len(tt.want))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputParserMouse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  cursive.MouseEvent
	}{
		{
			"LeftPress", "\x1b[<0;10;5M",
			cursive.MouseEvent{Pos: cursive.Pos{X: 9, Y: 4}, Button: cursive.MouseLeft, Action: cursive.MousePress},
		},
		{
			"LeftRelease", "\x1b[<0;3;3m",
			cursive.MouseEvent{Pos: cursive.Pos{X: 2, Y: 2}, Button: cursive.MouseLeft, Action: cursive.MouseRelease},
		},
		{
			"RightPress", "\x1b[<2;1;1M",
			cursive.MouseEvent{Pos: cursive.Pos{X: 0, Y: 0}, Button: cursive.MouseRight, Action: cursive.MousePress},
		},
		{
			"Drag", "\x1b[<32;4;4M",
			cursive.MouseEvent{Pos: cursive.Pos{X: 3, Y: 3}, Button: cursive.MouseLeft, Action: cursive.MouseDrag},
		},
		{
			"WheelUp", "\x1b[<64;1;1M",
			cursive.MouseEvent{Pos: cursive.Pos{X: 0, Y: 0}, Button: cursive.MouseWheelUp, Action: cursive.MousePress},
		},
		{
			"WheelDown", "\x1b[<65;1;1M",
			cursive.MouseEvent{Pos: cursive.Pos{X: 0, Y: 0}, Button: cursive.MouseWheelDown, Action: cursive.MousePress},
		},
		{
			"CtrlClick", "\x1b[<16;2;2M",
			cursive.MouseEvent{Pos: cursive.Pos{X: 1, Y: 1}, Button: cursive.MouseLeft, Action: cursive.MousePress, Mod: cursive.ModCtrl},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input, 1)
			if diff := cmp.Diff(cursive.Event(tt.want), got[0]); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputParserGarbage(t *testing.T) {
	// Malformed sequences must not wedge the parser; the rune after the
	// garbage still comes through.
	got := parse(t, "\x1b[<1;2Mx", 1)
	want := []cursive.Event{cursive.Char('x')}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
