package cursive

import "testing"

func TestBuffer(t *testing.T) {
	t.Run("NewBuffer", func(t *testing.T) {
		buf := NewBuffer(80, 24)
		if got := buf.Size(); got != (Size{80, 24}) {
			t.Errorf("expected 80x24, got %+v", got)
		}
		for y := 0; y < 24; y++ {
			for x := 0; x < 80; x++ {
				if c := buf.Get(x, y); c.Rune != ' ' {
					t.Fatalf("expected space at (%d,%d), got %q", x, y, c.Rune)
				}
			}
		}
	})

	t.Run("InBounds", func(t *testing.T) {
		buf := NewBuffer(10, 10)
		tests := []struct {
			x, y   int
			expect bool
		}{
			{0, 0, true},
			{9, 9, true},
			{-1, 0, false},
			{0, -1, false},
			{10, 0, false},
			{0, 10, false},
		}
		for _, tt := range tests {
			if got := buf.InBounds(tt.x, tt.y); got != tt.expect {
				t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		buf := NewBuffer(10, 10)
		cell := NewCell('X', DefaultStyle().Foreground(Red))
		buf.SetCell(5, 5, cell)
		if got := buf.Get(5, 5); !got.Equal(cell) {
			t.Errorf("got %+v, want %+v", got, cell)
		}
		// Out of bounds writes are dropped, reads return empty.
		buf.SetCell(20, 20, cell)
		if got := buf.Get(20, 20); !got.Equal(EmptyCell()) {
			t.Errorf("out of bounds read = %+v, want empty", got)
		}
	})

	t.Run("Resize", func(t *testing.T) {
		buf := NewBuffer(10, 10)
		buf.SetCell(0, 0, NewCell('X', DefaultStyle()))
		buf.Resize(5, 5)
		if got := buf.Size(); got != (Size{5, 5}) {
			t.Errorf("size after resize = %+v, want 5x5", got)
		}
		if c := buf.Get(0, 0); c.Rune != ' ' {
			t.Errorf("resize kept old content: %q", c.Rune)
		}
	})

	t.Run("Line", func(t *testing.T) {
		buf := NewBuffer(10, 2)
		for i, r := range "hello" {
			buf.SetCell(i, 0, NewCell(r, DefaultStyle()))
		}
		if got := buf.Line(0); got != "hello" {
			t.Errorf("Line(0) = %q, want %q", got, "hello")
		}
		if got := buf.Line(1); got != "" {
			t.Errorf("Line(1) = %q, want empty", got)
		}
	})

	t.Run("LineSkipsContinuations", func(t *testing.T) {
		buf := NewBuffer(10, 1)
		buf.SetCell(0, 0, NewCell('漢', DefaultStyle()))
		buf.SetCell(1, 0, Cell{Style: DefaultStyle()})
		buf.SetCell(2, 0, NewCell('x', DefaultStyle()))
		if got := buf.Line(0); got != "漢x" {
			t.Errorf("Line(0) = %q, want %q", got, "漢x")
		}
	})
}

func TestStylePatch(t *testing.T) {
	base := DefaultStyle().Foreground(White).Background(Blue)

	t.Run("ZeroDeltaIsIdentity", func(t *testing.T) {
		if got := base.Patch(Style{}); !got.Equal(base) {
			t.Errorf("got %+v, want %+v", got, base)
		}
	})

	t.Run("ForegroundOnly", func(t *testing.T) {
		got := base.Patch(Style{FG: Red})
		if got.FG != Red {
			t.Errorf("FG = %+v, want red", got.FG)
		}
		if got.BG != Blue {
			t.Errorf("BG = %+v, want blue (inherited)", got.BG)
		}
	})

	t.Run("AttrsAccumulate", func(t *testing.T) {
		got := base.Bold().Patch(Style{Attr: AttrUnderline})
		if !got.Attr.Has(AttrBold) || !got.Attr.Has(AttrUnderline) {
			t.Errorf("Attr = %v, want bold|underline", got.Attr)
		}
	})
}
