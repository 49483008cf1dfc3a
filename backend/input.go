package backend

import (
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mimame/cursive"
)

// escTimeout is how long a lone ESC waits for a following byte before
// being reported as the Escape key. Terminals send multi-byte sequences
// back to back, so anything longer than a few milliseconds means the
// user really pressed Escape.
const escTimeout = 50 * time.Millisecond

// inputParser turns the raw terminal byte stream into semantic events.
// One goroutine pumps bytes off the file, a second decodes them; the
// split is what makes the ESC disambiguation timeout possible while the
// read itself stays blocking.
type inputParser struct {
	in     io.Reader
	events chan<- cursive.Event
	errs   chan<- error

	bytes chan byte
}

func (p *inputParser) run() {
	p.bytes = make(chan byte, 256)
	go p.pump()
	p.decode()
}

func (p *inputParser) pump() {
	buf := make([]byte, 128)
	for {
		n, err := p.in.Read(buf)
		for _, b := range buf[:n] {
			p.bytes <- b
		}
		if err != nil {
			if err != io.EOF {
				select {
				case p.errs <- err:
				default:
				}
			}
			close(p.bytes)
			return
		}
	}
}

// next blocks for the next byte.
func (p *inputParser) next() (byte, bool) {
	b, ok := <-p.bytes
	return b, ok
}

// nextTimeout waits for the next byte up to escTimeout.
func (p *inputParser) nextTimeout() (byte, bool) {
	select {
	case b, ok := <-p.bytes:
		return b, ok
	case <-time.After(escTimeout):
		return 0, false
	}
}

func (p *inputParser) emit(ev cursive.Event) {
	p.events <- ev
}

func (p *inputParser) decode() {
	for {
		b, ok := p.next()
		if !ok {
			return
		}
		switch {
		case b == 0x1b:
			p.decodeEscape()
		case b == '\r' || b == '\n':
			p.emit(cursive.KeyPress(cursive.KeyEnter))
		case b == '\t':
			p.emit(cursive.KeyPress(cursive.KeyTab))
		case b == 0x7f || b == 0x08:
			p.emit(cursive.KeyPress(cursive.KeyBackspace))
		case b > 0 && b < 0x20:
			p.emit(cursive.Ctrl(rune('a' + b - 1)))
		case b >= 0x20 && b < 0x80:
			p.emit(cursive.Char(rune(b)))
		case b >= 0x80:
			if r, ok := p.decodeUTF8(b); ok {
				p.emit(cursive.Char(r))
			}
		}
	}
}

// decodeUTF8 collects the continuation bytes of a multi-byte rune whose
// lead byte has already been consumed.
func (p *inputParser) decodeUTF8(lead byte) (rune, bool) {
	buf := []byte{lead}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		b, ok := p.next()
		if !ok {
			return 0, false
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

func (p *inputParser) decodeEscape() {
	b, ok := p.nextTimeout()
	if !ok {
		p.emit(cursive.KeyPress(cursive.KeyEscape))
		return
	}
	switch b {
	case '[':
		p.decodeCSI()
	case 'O':
		p.decodeSS3()
	default:
		// Alt-modified key.
		switch {
		case b == '\r' || b == '\n':
			p.emit(cursive.KeyEvent{Key: cursive.KeyEnter, Mod: cursive.ModAlt})
		case b >= 0x20 && b < 0x80:
			p.emit(cursive.KeyEvent{Key: cursive.KeyRune, Rune: rune(b), Mod: cursive.ModAlt})
		}
	}
}

// decodeCSI consumes a CSI sequence: parameter bytes up to the final
// byte in 0x40..0x7e.
func (p *inputParser) decodeCSI() {
	var params []byte
	var final byte
	for {
		b, ok := p.nextTimeout()
		if !ok {
			return
		}
		if b >= 0x40 && b <= 0x7e {
			final = b
			break
		}
		params = append(params, b)
		if len(params) > 32 {
			return
		}
	}

	if len(params) > 0 && params[0] == '<' {
		p.decodeSGRMouse(string(params[1:]), final)
		return
	}

	mod := csiMod(string(params))
	switch final {
	case 'A':
		p.emit(cursive.KeyEvent{Key: cursive.KeyUp, Mod: mod})
	case 'B':
		p.emit(cursive.KeyEvent{Key: cursive.KeyDown, Mod: mod})
	case 'C':
		p.emit(cursive.KeyEvent{Key: cursive.KeyRight, Mod: mod})
	case 'D':
		p.emit(cursive.KeyEvent{Key: cursive.KeyLeft, Mod: mod})
	case 'H':
		p.emit(cursive.KeyEvent{Key: cursive.KeyHome, Mod: mod})
	case 'F':
		p.emit(cursive.KeyEvent{Key: cursive.KeyEnd, Mod: mod})
	case 'Z':
		p.emit(cursive.KeyPress(cursive.KeyBacktab))
	case '~':
		p.decodeTilde(string(params))
	}
}

// decodeSS3 consumes the final byte of an ESC O sequence, sent by
// terminals in application mode for F1-F4, arrows, Home and End.
func (p *inputParser) decodeSS3() {
	b, ok := p.nextTimeout()
	if !ok {
		return
	}
	switch b {
	case 'A':
		p.emit(cursive.KeyPress(cursive.KeyUp))
	case 'B':
		p.emit(cursive.KeyPress(cursive.KeyDown))
	case 'C':
		p.emit(cursive.KeyPress(cursive.KeyRight))
	case 'D':
		p.emit(cursive.KeyPress(cursive.KeyLeft))
	case 'H':
		p.emit(cursive.KeyPress(cursive.KeyHome))
	case 'F':
		p.emit(cursive.KeyPress(cursive.KeyEnd))
	case 'P':
		p.emit(cursive.KeyPress(cursive.KeyF1))
	case 'Q':
		p.emit(cursive.KeyPress(cursive.KeyF2))
	case 'R':
		p.emit(cursive.KeyPress(cursive.KeyF3))
	case 'S':
		p.emit(cursive.KeyPress(cursive.KeyF4))
	}
}

// vt sequence numbers for ESC [ n ~ keys.
var tildeKeys = map[int]cursive.Key{
	1:  cursive.KeyHome,
	2:  cursive.KeyInsert,
	3:  cursive.KeyDelete,
	4:  cursive.KeyEnd,
	5:  cursive.KeyPgUp,
	6:  cursive.KeyPgDn,
	7:  cursive.KeyHome,
	8:  cursive.KeyEnd,
	11: cursive.KeyF1,
	12: cursive.KeyF2,
	13: cursive.KeyF3,
	14: cursive.KeyF4,
	15: cursive.KeyF5,
	17: cursive.KeyF6,
	18: cursive.KeyF7,
	19: cursive.KeyF8,
	20: cursive.KeyF9,
	21: cursive.KeyF10,
	23: cursive.KeyF11,
	24: cursive.KeyF12,
}

func (p *inputParser) decodeTilde(params string) {
	fields := strings.Split(params, ";")
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return
	}
	key, ok := tildeKeys[n]
	if !ok {
		return
	}
	var mod cursive.ModMask
	if len(fields) > 1 {
		mod = modFromCode(fields[1])
	}
	p.emit(cursive.KeyEvent{Key: key, Mod: mod})
}

// csiMod extracts the modifier from "1;m" style parameters.
func csiMod(params string) cursive.ModMask {
	fields := strings.Split(params, ";")
	if len(fields) < 2 {
		return 0
	}
	return modFromCode(fields[1])
}

// modFromCode decodes the xterm modifier parameter: value minus one is
// a bitmask of shift=1, alt=2, ctrl=4.
func modFromCode(s string) cursive.ModMask {
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 {
		return 0
	}
	bits := n - 1
	var mod cursive.ModMask
	if bits&1 != 0 {
		mod |= cursive.ModShift
	}
	if bits&2 != 0 {
		mod |= cursive.ModAlt
	}
	if bits&4 != 0 {
		mod |= cursive.ModCtrl
	}
	return mod
}

// decodeSGRMouse decodes "b;x;y" with final 'M' (press or drag) or 'm'
// (release). Coordinates on the wire are 1-based.
func (p *inputParser) decodeSGRMouse(params string, final byte) {
	fields := strings.Split(params, ";")
	if len(fields) != 3 {
		return
	}
	b, err1 := strconv.Atoi(fields[0])
	x, err2 := strconv.Atoi(fields[1])
	y, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}

	ev := cursive.MouseEvent{Pos: cursive.Pos{X: x - 1, Y: y - 1}}
	if b&4 != 0 {
		ev.Mod |= cursive.ModShift
	}
	if b&8 != 0 {
		ev.Mod |= cursive.ModAlt
	}
	if b&16 != 0 {
		ev.Mod |= cursive.ModCtrl
	}

	switch {
	case b&64 != 0:
		if b&3 == 0 {
			ev.Button = cursive.MouseWheelUp
		} else {
			ev.Button = cursive.MouseWheelDown
		}
		ev.Action = cursive.MousePress
	default:
		switch b & 3 {
		case 0:
			ev.Button = cursive.MouseLeft
		case 1:
			ev.Button = cursive.MouseMiddle
		case 2:
			ev.Button = cursive.MouseRight
		default:
			return
		}
		switch {
		case final == 'm':
			ev.Action = cursive.MouseRelease
		case b&32 != 0:
			ev.Action = cursive.MouseDrag
		default:
			ev.Action = cursive.MousePress
		}
	}
	p.emit(ev)
}
