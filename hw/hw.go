// Package hw describes the peripherals the player needs from its board:
// input lines, a four-channel PWM output, delays, an idle wait and a
// critical section shared with the periodic interrupt.
package hw

import "context"

// Channel identifies one output channel of the PWM device.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Tone
)

// NumChannels is the number of output channels (3 intensity + 1 tone).
const NumChannels = 4

// Intensity lists the three indicator channels in R, G, B order.
var Intensity = [3]Channel{Red, Green, Blue}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Tone:
		return "tone"
	}
	return "unknown"
}

// Pin is a digital input line.
type Pin interface {
	Get() bool
}

// Output is the tone/intensity PWM device. SetFrequency changes the timebase
// shared by all channels. Writes are treated as always succeeding.
type Output interface {
	SetFrequency(hz uint32)
	SetDuty(ch Channel, duty uint32)
	MaxDuty(ch Channel) uint32
	Enable(ch Channel)
	Disable(ch Channel)
}

// Delayer blocks the caller for a fixed number of milliseconds. The delay
// cannot be interrupted.
type Delayer interface {
	Delay(ms uint32)
}

// Idler blocks the caller until the next interrupt of any kind.
type Idler interface {
	Idle(ctx context.Context) error
}

// CriticalSection runs f with the periodic interrupt held off.
type CriticalSection interface {
	Do(f func())
}
