package cursive

// Cell represents a single character cell on the terminal.
//
// A rune of 0 marks the continuation cell of a double-width character; it
// occupies the column but is never written to the terminal itself.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a cell with a space and default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// NewCell creates a cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// Equal returns true if two cells are equal.
func (c Cell) Equal(other Cell) bool {
	return c == other
}

// Surface is the minimal target a Painter draws onto. Backends implement
// it directly; Buffer implements it for double buffering and for tests.
type Surface interface {
	Size() Size
	SetCell(x, y int, c Cell)
}

// Buffer is a 2D grid of cells representing a drawable surface.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a new buffer with the given dimensions, filled with
// empty cells.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.alloc(width, height)
	return b
}

func (b *Buffer) alloc(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.cells = make([]Cell, width*height)
	b.width = width
	b.height = height
	b.Clear()
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() Size {
	return Size{b.width, b.height}
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// index converts x,y coordinates to a slice index.
func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.index(x, y)]
}

// SetCell sets the cell at the given coordinates.
// Does nothing if out of bounds.
func (b *Buffer) SetCell(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[b.index(x, y)] = c
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear clears the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// Resize reallocates the buffer to the new dimensions. Content is
// discarded; callers redraw after a resize anyway.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	b.alloc(width, height)
}

// Line returns the runes of row y as a string with trailing spaces
// trimmed. Continuation cells of wide characters are skipped.
func (b *Buffer) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for x := 0; x < b.width; x++ {
		c := b.cells[b.index(x, y)]
		if c.Rune == 0 {
			continue
		}
		runes = append(runes, c.Rune)
	}
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}
