// Package gpio runs the board on a Linux single-board computer: buttons on
// GPIO inputs with pull-downs and the four channels on PWM-capable pins.
package gpio

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"music-board/debug"
	"music-board/hw"
	"music-board/input"
)

// Pins names the GPIO lines, as understood by gpioreg.ByName.
type Pins struct {
	Buttons [input.NumButtons]string // previous, next, pause, light
	Outputs [hw.NumChannels]string   // red, green, blue, tone
}

// Open initialises the host drivers and claims every configured line.
func Open(pins Pins) (hw.Output, [input.NumButtons]hw.Pin, error) {
	var in [input.NumButtons]hw.Pin
	if _, err := host.Init(); err != nil {
		return nil, in, fmt.Errorf("gpio: host init: %w", err)
	}

	for _, b := range input.Buttons {
		p := gpioreg.ByName(pins.Buttons[b])
		if p == nil {
			return nil, in, fmt.Errorf("gpio: %s button pin %q not found", b, pins.Buttons[b])
		}
		if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
			return nil, in, fmt.Errorf("gpio: %s button pin %q: %w", b, pins.Buttons[b], err)
		}
		in[b] = button{pin: p}
	}

	var outs [hw.NumChannels]PWMPin
	for ch := hw.Channel(0); ch < hw.NumChannels; ch++ {
		p := gpioreg.ByName(pins.Outputs[ch])
		if p == nil {
			return nil, in, fmt.Errorf("gpio: %s output pin %q not found", ch, pins.Outputs[ch])
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, in, fmt.Errorf("gpio: %s output pin %q: %w", ch, pins.Outputs[ch], err)
		}
		outs[ch] = p
	}
	debug.Log("gpio", "buttons %v, outputs %v", pins.Buttons, pins.Outputs)
	return NewOutput(outs), in, nil
}

type button struct {
	pin gpio.PinIn
}

func (b button) Get() bool {
	return b.pin.Read() == gpio.High
}

// PWMPin is the part of gpio.PinOut the output needs.
type PWMPin interface {
	Out(l gpio.Level) error
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// Output drives four PWM pins from one shared timebase, like a single
// hardware timer with four compare channels. Pin errors are logged and
// dropped.
type Output struct {
	mu      sync.Mutex
	pins    [hw.NumChannels]PWMPin
	hz      uint32
	duty    [hw.NumChannels]uint32
	enabled [hw.NumChannels]bool
}

// NewOutput returns an output over pins, indexed by hw.Channel.
func NewOutput(pins [hw.NumChannels]PWMPin) *Output {
	return &Output{pins: pins}
}

// SetFrequency changes the timebase and re-applies every running channel.
func (o *Output) SetFrequency(hz uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hz = hz
	for ch := hw.Channel(0); ch < hw.NumChannels; ch++ {
		if o.enabled[ch] {
			o.apply(ch)
		}
	}
}

func (o *Output) SetDuty(ch hw.Channel, duty uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if duty > uint32(gpio.DutyMax) {
		duty = uint32(gpio.DutyMax)
	}
	o.duty[ch] = duty
	if o.enabled[ch] {
		o.apply(ch)
	}
}

func (o *Output) MaxDuty(hw.Channel) uint32 {
	return uint32(gpio.DutyMax)
}

func (o *Output) Enable(ch hw.Channel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled[ch] = true
	o.apply(ch)
}

func (o *Output) Disable(ch hw.Channel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled[ch] = false
	o.apply(ch)
}

func (o *Output) apply(ch hw.Channel) {
	var err error
	switch {
	case !o.enabled[ch] || o.duty[ch] == 0 || o.hz == 0:
		err = o.pins[ch].Out(gpio.Low)
	default:
		err = o.pins[ch].PWM(gpio.Duty(o.duty[ch]), physic.Frequency(o.hz)*physic.Hertz)
	}
	if err != nil {
		debug.Log("gpio", "%s: %v", ch, err)
	}
}
