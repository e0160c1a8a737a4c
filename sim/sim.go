// Package sim is an in-memory board: button lines that a keyboard, MIDI
// pad or test can drive, and an output that remembers what the player
// asked for so a front panel can show it.
package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"music-board/hw"
	"music-board/input"
)

// MaxDuty is the duty range of the simulated PWM channels.
const MaxDuty = 1000

// Buttons holds the four simulated button lines.
type Buttons struct {
	levels [input.NumButtons]atomic.Bool
}

// Pin returns the input line for b.
func (s *Buttons) Pin(b input.Button) hw.Pin {
	return pin{level: &s.levels[b]}
}

// Pins returns all four lines in sampling order.
func (s *Buttons) Pins() [input.NumButtons]hw.Pin {
	var pins [input.NumButtons]hw.Pin
	for _, b := range input.Buttons {
		pins[b] = s.Pin(b)
	}
	return pins
}

// Set drives the line for b high or low.
func (s *Buttons) Set(b input.Button, high bool) {
	s.levels[b].Store(high)
}

// Level reports the current line level for b.
func (s *Buttons) Level(b input.Button) bool {
	return s.levels[b].Load()
}

// Tap presses b and releases it after hold. hold must span at least one
// sampler period for the press to be seen.
func (s *Buttons) Tap(b input.Button, hold time.Duration) {
	s.Set(b, true)
	time.AfterFunc(hold, func() { s.Set(b, false) })
}

type pin struct {
	level *atomic.Bool
}

func (p pin) Get() bool {
	return p.level.Load()
}

// State is a snapshot of the simulated output.
type State struct {
	Hz       uint32
	ToneOn   bool
	ToneDuty uint32
	Duty     [3]uint32
	Enabled  [3]bool
}

// Output is a simulated PWM device.
type Output struct {
	mu      sync.Mutex
	hz      uint32
	duty    [hw.NumChannels]uint32
	enabled [hw.NumChannels]bool
}

func NewOutput() *Output {
	return &Output{}
}

func (o *Output) SetFrequency(hz uint32) {
	o.mu.Lock()
	o.hz = hz
	o.mu.Unlock()
}

func (o *Output) SetDuty(ch hw.Channel, duty uint32) {
	if duty > MaxDuty {
		duty = MaxDuty
	}
	o.mu.Lock()
	o.duty[ch] = duty
	o.mu.Unlock()
}

func (o *Output) MaxDuty(hw.Channel) uint32 {
	return MaxDuty
}

func (o *Output) Enable(ch hw.Channel) {
	o.mu.Lock()
	o.enabled[ch] = true
	o.mu.Unlock()
}

func (o *Output) Disable(ch hw.Channel) {
	o.mu.Lock()
	o.enabled[ch] = false
	o.mu.Unlock()
}

// Snapshot returns the current output state.
func (o *Output) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := State{
		Hz:       o.hz,
		ToneOn:   o.enabled[hw.Tone],
		ToneDuty: o.duty[hw.Tone],
	}
	for i, ch := range hw.Intensity {
		s.Duty[i] = o.duty[ch]
		s.Enabled[i] = o.enabled[ch]
	}
	return s
}

// Tone returns the tone frequency and whether the tone channel is on.
func (o *Output) Tone() (hz uint32, on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hz, o.enabled[hw.Tone] && o.hz > 0
}

// RGB returns the visible indicator colour, 0-255 per channel. Disabled
// channels are dark.
func (s State) RGB() (r, g, b uint8) {
	var c [3]uint8
	for i := range c {
		if s.Enabled[i] {
			c[i] = uint8(s.Duty[i] * 255 / MaxDuty)
		}
	}
	return c[0], c[1], c[2]
}

// Lit reports whether any indicator channel is visibly on.
func (s State) Lit() bool {
	r, g, b := s.RGB()
	return r|g|b != 0
}
