// Package indicator switches the RGB indicator on and off in response to
// the light button.
package indicator

import (
	"sync/atomic"

	"music-board/debug"
	"music-board/hw"
	"music-board/input"
)

// Indicator owns the on/off state of the three intensity channels. It is
// driven from the interrupt context, right after the sampler.
type Indicator struct {
	out   hw.Output
	flags *input.Flags
	on    atomic.Bool
}

// New returns an Indicator that starts off. out must be the raw output:
// Handle already runs inside the critical section.
func New(out hw.Output, flags *input.Flags) *Indicator {
	return &Indicator{out: out, flags: flags}
}

// Handle takes the light request, if any, and applies the new state.
// It reports whether the state changed.
func (i *Indicator) Handle() bool {
	if !i.flags.Take(input.Light) {
		return false
	}
	on := !i.on.Load()
	i.on.Store(on)
	for _, ch := range hw.Intensity {
		if on {
			i.out.Enable(ch)
		} else {
			i.out.Disable(ch)
		}
	}
	if on {
		debug.Log("light", "indicator on")
	} else {
		debug.Log("light", "indicator off")
	}
	return true
}

// On reports the current state.
func (i *Indicator) On() bool {
	return i.on.Load()
}
