package backend

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimame/cursive"
)

// newPipedANSI builds an adapter over pipes so the escape stream can be
// inspected. The input write end feeds the parser; the output read end
// captures everything the adapter emits.
func newPipedANSI(t *testing.T) (*ANSI, *os.File, *os.File) {
	t.Helper()
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		inW.Close()
		outR.Close()
	})

	a := NewANSIFiles(inR, outW)
	require.NoError(t, a.Init())
	t.Cleanup(func() {
		a.Fini()
		outW.Close()
	})
	return a, inW, outR
}

func TestANSIInit(t *testing.T) {
	a, _, _ := newPipedANSI(t)
	// Pipes are not terminals, so the size falls back.
	assert.Equal(t, cursive.Size{W: 80, H: 24}, a.Size())
}

func TestANSIInput(t *testing.T) {
	a, inW, _ := newPipedANSI(t)

	_, err := inW.WriteString("a\x1b[B")
	require.NoError(t, err)

	ev, err := a.PollEvent(time.Second)
	require.NoError(t, err)
	assert.Equal(t, cursive.Event(cursive.Char('a')), ev)

	ev, err = a.PollEvent(time.Second)
	require.NoError(t, err)
	assert.Equal(t, cursive.Event(cursive.KeyPress(cursive.KeyDown)), ev)
}

func TestANSIPollTimeout(t *testing.T) {
	a, _, _ := newPipedANSI(t)
	ev, err := a.PollEvent(10 * time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestANSIFlushDiff(t *testing.T) {
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	defer inW.Close()
	defer inR.Close()
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	defer outR.Close()

	a := NewANSIFiles(inR, outW)
	require.NoError(t, a.Init())

	red := cursive.DefaultStyle().Foreground(cursive.Red)
	a.Clear()
	a.SetCell(2, 1, cursive.NewCell('X', red))
	require.NoError(t, a.Flush())

	// Same frame again: every cell matches the front buffer, so no
	// cursor move is emitted a second time.
	a.Clear()
	a.SetCell(2, 1, cursive.NewCell('X', red))
	require.NoError(t, a.Flush())

	a.Fini()
	outW.Close()
	out, err := io.ReadAll(outR)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "\x1b[?1049h", "alternate screen on init")
	assert.Contains(t, s, "\x1b[?1049l", "alternate screen restored")
	assert.Equal(t, 1, strings.Count(s, "\x1b[2;3H"), "changed cell positioned exactly once")
	assert.Contains(t, s, ";31m", "red foreground emitted")
	assert.Contains(t, s, "X")
}

func TestANSIWideRuneAdvance(t *testing.T) {
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	defer inW.Close()
	defer inR.Close()
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	defer outR.Close()

	a := NewANSIFiles(inR, outW)
	require.NoError(t, a.Init())

	// A wide rune, its continuation cell, then an adjacent narrow rune.
	// The narrow rune needs no cursor reposition if the advance math is
	// right: the cursor lands on it after the wide rune is written.
	a.SetCell(0, 0, cursive.NewCell('漢', cursive.DefaultStyle()))
	a.SetCell(1, 0, cursive.Cell{Style: cursive.DefaultStyle()})
	a.SetCell(2, 0, cursive.NewCell('x', cursive.DefaultStyle()))
	require.NoError(t, a.Flush())

	a.Fini()
	outW.Close()
	out, err := io.ReadAll(outR)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "漢")
	assert.Contains(t, s, "\x1b[1;1H")
	assert.NotContains(t, s, "\x1b[1;3H", "cursor already at column 3 after the wide rune")
}
