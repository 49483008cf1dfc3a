package backend

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/mimame/cursive"
)

// ANSI drives a terminal directly with escape sequences: raw mode via
// term, SIGWINCH for resizes, and a double-buffered flush that emits
// only the cells that changed since the previous frame.
type ANSI struct {
	in  *os.File
	out *bufio.Writer
	tty *os.File

	front *cursive.Buffer // what the terminal currently shows
	back  *cursive.Buffer // what the next Flush should show
	size  cursive.Size

	oldState *term.State
	events   chan cursive.Event
	errs     chan error
	winch    chan os.Signal

	seq       bytes.Buffer
	lastStyle cursive.Style
	styled    bool
}

// NewANSI creates an adapter over stdin and stdout.
func NewANSI() *ANSI {
	return NewANSIFiles(os.Stdin, os.Stdout)
}

// NewANSIFiles creates an adapter over explicit terminal files.
func NewANSIFiles(in, out *os.File) *ANSI {
	return &ANSI{
		in:  in,
		out: bufio.NewWriterSize(out, 32*1024),
		tty: out,
	}
}

// Init switches the terminal to raw mode, enters the alternate screen
// and starts the input reader.
func (a *ANSI) Init() error {
	fd := int(a.in.Fd())
	if term.IsTerminal(fd) {
		st, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		a.oldState = st
	}

	w, h, err := term.GetSize(int(a.tty.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	a.size = cursive.Size{W: w, H: h}
	a.front = cursive.NewBuffer(w, h)
	a.back = cursive.NewBuffer(w, h)

	a.winch = make(chan os.Signal, 1)
	signal.Notify(a.winch, unix.SIGWINCH)

	a.events = make(chan cursive.Event, 16)
	a.errs = make(chan error, 1)
	p := &inputParser{in: a.in, events: a.events, errs: a.errs}
	go p.run()

	// Alternate screen, clear, home, hide cursor, enable SGR mouse.
	a.out.WriteString("\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l\x1b[?1002h\x1b[?1006h")
	return a.out.Flush()
}

// Fini restores the terminal. The input reader goroutine stays blocked
// on the terminal read until the process exits; it writes only to
// buffered channels so nothing leaks per frame.
func (a *ANSI) Fini() {
	if a.winch != nil {
		signal.Stop(a.winch)
		a.winch = nil
	}
	a.out.WriteString("\x1b[?1006l\x1b[?1002l\x1b[?25h\x1b[?1049l")
	a.out.Flush()
	if a.oldState != nil {
		term.Restore(int(a.in.Fd()), a.oldState)
		a.oldState = nil
	}
}

// Size returns the terminal dimensions as of the last resize.
func (a *ANSI) Size() cursive.Size {
	return a.size
}

// SetCell stages a cell in the back buffer.
func (a *ANSI) SetCell(x, y int, c cursive.Cell) {
	a.back.SetCell(x, y, c)
}

// Clear stages a blank back buffer.
func (a *ANSI) Clear() {
	a.back.Clear()
}

// Flush writes every cell that differs from the front buffer, then
// promotes the back buffer. Cursor moves are emitted only when the
// write position is not already correct, and style sequences only when
// the style changes between consecutive writes.
func (a *ANSI) Flush() error {
	a.styled = false
	curX, curY := -1, -1
	for y := 0; y < a.size.H; y++ {
		for x := 0; x < a.size.W; {
			c := a.back.Get(x, y)
			if c.Rune == 0 {
				// Continuation cell; the wide rune before it covers it.
				x++
				continue
			}
			if c.Equal(a.front.Get(x, y)) {
				x++
				continue
			}
			if x != curX || y != curY {
				fmt.Fprintf(a.out, "\x1b[%d;%dH", y+1, x+1)
			}
			a.writeStyle(c.Style)
			a.out.WriteRune(c.Rune)
			adv := runewidth.RuneWidth(c.Rune)
			if adv < 1 {
				adv = 1
			}
			curX, curY = x+adv, y
			x += adv
		}
	}
	a.out.WriteString("\x1b[0m")
	if err := a.out.Flush(); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	a.front, a.back = a.back, a.front
	a.back.Clear()
	return nil
}

// writeStyle emits an SGR sequence when the style differs from the one
// last emitted in this flush.
func (a *ANSI) writeStyle(s cursive.Style) {
	if a.styled && s.Equal(a.lastStyle) {
		return
	}
	a.seq.Reset()
	a.seq.WriteString("\x1b[0")
	writeAttrs(&a.seq, s.Attr)
	writeColor(&a.seq, s.FG, false)
	writeColor(&a.seq, s.BG, true)
	a.seq.WriteByte('m')
	a.out.Write(a.seq.Bytes())
	a.lastStyle = s
	a.styled = true
}

func writeAttrs(b *bytes.Buffer, attr cursive.Attribute) {
	codes := []struct {
		a    cursive.Attribute
		code string
	}{
		{cursive.AttrBold, ";1"},
		{cursive.AttrDim, ";2"},
		{cursive.AttrItalic, ";3"},
		{cursive.AttrUnderline, ";4"},
		{cursive.AttrBlink, ";5"},
		{cursive.AttrInverse, ";7"},
		{cursive.AttrStrikethrough, ";9"},
	}
	for _, c := range codes {
		if attr.Has(c.a) {
			b.WriteString(c.code)
		}
	}
}

func writeColor(b *bytes.Buffer, c cursive.Color, background bool) {
	base := 30
	if background {
		base = 40
	}
	switch c.Mode {
	case cursive.Color16:
		n := int(c.Index)
		if n < 8 {
			fmt.Fprintf(b, ";%d", base+n)
		} else {
			fmt.Fprintf(b, ";%d", base+60+n-8)
		}
	case cursive.Color256:
		fmt.Fprintf(b, ";%d;5;%d", base+8, c.Index)
	case cursive.ColorRGB:
		fmt.Fprintf(b, ";%d;2;%d;%d;%d", base+8, c.R, c.G, c.B)
	}
}

// PollEvent returns the next input event, resize, read error or nil on
// timeout expiry.
func (a *ANSI) PollEvent(timeout time.Duration) (cursive.Event, error) {
	var timer <-chan time.Time
	if timeout >= 0 {
		timer = time.After(timeout)
	}
	select {
	case ev := <-a.events:
		return ev, nil
	case err := <-a.errs:
		return nil, fmt.Errorf("terminal read: %w", err)
	case <-a.winch:
		return a.resize(), nil
	case <-timer:
		return nil, nil
	}
}

func (a *ANSI) resize() cursive.Event {
	w, h, err := term.GetSize(int(a.tty.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return cursive.ResizeEvent{Size: a.size}
	}
	a.size = cursive.Size{W: w, H: h}
	a.front.Resize(w, h)
	a.back.Resize(w, h)
	a.front.Clear()
	a.out.WriteString("\x1b[2J")
	a.out.Flush()
	return cursive.ResizeEvent{Size: a.size}
}
