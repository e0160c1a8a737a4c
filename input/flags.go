// Package input turns the four button lines into one-shot events.
package input

import "sync/atomic"

// Button names one of the four physical buttons.
type Button int

const (
	Previous Button = iota
	Next
	Pause
	Light
)

// NumButtons is the number of buttons on the board.
const NumButtons = 4

// Buttons lists every button in sampling order.
var Buttons = [NumButtons]Button{Previous, Next, Pause, Light}

func (b Button) String() string {
	switch b {
	case Previous:
		return "previous"
	case Next:
		return "next"
	case Pause:
		return "pause"
	case Light:
		return "light"
	}
	return "unknown"
}

// Flags holds one pending request per button. The sampler raises flags; each
// flag has a single consumer that takes it with an atomic test-and-clear.
// Raising a flag that is already pending has no further effect.
type Flags struct {
	pending [NumButtons]atomic.Bool
}

// Raise marks a request for b as pending.
func (f *Flags) Raise(b Button) {
	f.pending[b].Store(true)
}

// Take clears the flag for b and reports whether it was set.
func (f *Flags) Take(b Button) bool {
	return f.pending[b].Swap(false)
}

// Clear drops any pending request for b.
func (f *Flags) Clear(b Button) {
	f.pending[b].Store(false)
}

// Pending reports whether b has a request waiting, without consuming it.
func (f *Flags) Pending(b Button) bool {
	return f.pending[b].Load()
}
