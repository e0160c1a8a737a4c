package input

import "music-board/hw"

// Edges is the set of buttons that went from low to high in one sample.
type Edges uint8

// Has reports whether b is in the set.
func (e Edges) Has(b Button) bool {
	return e&(1<<uint(b)) != 0
}

// Empty reports whether no button fired.
func (e Edges) Empty() bool {
	return e == 0
}

// Sampler debounces the button lines by edge detection at a fixed rate. A
// press held across many samples yields a single event as long as the
// sample period is shorter than the press and longer than contact bounce.
type Sampler struct {
	pins  [NumButtons]hw.Pin
	latch [NumButtons]bool
	flags *Flags
}

// NewSampler returns a sampler reading pins (indexed by Button) and
// raising flags. All latches start low.
func NewSampler(pins [NumButtons]hw.Pin, flags *Flags) *Sampler {
	return &Sampler{pins: pins, flags: flags}
}

// Sample reads every line once and raises the flag of each button whose
// line rose since the previous sample. It must run inside the critical
// section, once per sampling period.
func (s *Sampler) Sample() Edges {
	var edges Edges
	for _, b := range Buttons {
		level := s.pins[b].Get()
		if !s.latch[b] && level {
			s.flags.Raise(b)
			edges |= 1 << uint(b)
		}
		s.latch[b] = level
	}
	return edges
}
