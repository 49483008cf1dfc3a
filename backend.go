package cursive

import "time"

// Backend is the contract a terminal adapter satisfies. The core depends
// only on this interface; concrete adapters each wrap one low-level
// terminal-control library (see the backend package) and are chosen at
// startup.
//
// A Backend's SetCell and Size double as the Surface the runtime paints
// onto between Clear and Flush. Cells with rune 0 are continuation cells
// of double-width characters and need not be written to the terminal.
type Backend interface {
	// Init prepares the terminal (raw mode, alternate screen, ...).
	Init() error

	// Fini restores the terminal. Safe to call after a failed Init.
	Fini()

	// Size returns the current terminal dimensions.
	Size() Size

	// SetCell stages a cell for the next Flush.
	SetCell(x, y int, c Cell)

	// Clear stages a blank screen for the next Flush.
	Clear()

	// Flush presents all staged cells.
	Flush() error

	// PollEvent blocks until an input event arrives or the timeout
	// elapses. A negative timeout blocks indefinitely. A nil event with a
	// nil error means the timeout expired. A non-nil error is a terminal
	// I/O failure and is fatal to the run.
	PollEvent(timeout time.Duration) (Event, error)
}
