// Package hwtest provides recording and virtual-time fakes of the hw
// interfaces for tests.
package hwtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"music-board/hw"
)

// DefaultMaxDuty is the duty range reported by a Recorder.
const DefaultMaxDuty = 1000

// Op is a single recorded Output call.
type Op struct {
	Kind  string // "freq", "duty", "enable", "disable"
	Ch    hw.Channel
	Value uint32
}

func (o Op) String() string {
	switch o.Kind {
	case "freq":
		return fmt.Sprintf("freq %d", o.Value)
	case "duty":
		return fmt.Sprintf("duty %s %d", o.Ch, o.Value)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.Ch)
}

// Recorder is an hw.Output that records every call and tracks the
// resulting channel state.
type Recorder struct {
	mu      sync.Mutex
	ops     []Op
	freq    uint32
	duty    [hw.NumChannels]uint32
	enabled [hw.NumChannels]bool
	Max     uint32
}

func NewRecorder() *Recorder {
	return &Recorder{Max: DefaultMaxDuty}
}

func (r *Recorder) SetFrequency(hz uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freq = hz
	r.ops = append(r.ops, Op{Kind: "freq", Value: hz})
}

func (r *Recorder) SetDuty(ch hw.Channel, duty uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duty[ch] = duty
	r.ops = append(r.ops, Op{Kind: "duty", Ch: ch, Value: duty})
}

func (r *Recorder) MaxDuty(hw.Channel) uint32 {
	return r.Max
}

func (r *Recorder) Enable(ch hw.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[ch] = true
	r.ops = append(r.ops, Op{Kind: "enable", Ch: ch})
}

func (r *Recorder) Disable(ch hw.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[ch] = false
	r.ops = append(r.ops, Op{Kind: "disable", Ch: ch})
}

// Ops returns a copy of the recorded calls.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// Frequencies returns every frequency programmed, in order.
func (r *Recorder) Frequencies() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint32
	for _, op := range r.ops {
		if op.Kind == "freq" {
			out = append(out, op.Value)
		}
	}
	return out
}

func (r *Recorder) Enabled(ch hw.Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled[ch]
}

func (r *Recorder) Duty(ch hw.Channel) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duty[ch]
}

func (r *Recorder) Frequency() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.freq
}

// ErrNoIdleHook is returned by Clock.Idle when no OnIdle hook is set, so a
// controller stuck in pause fails the test instead of hanging it.
var ErrNoIdleHook = errors.New("hwtest: idle without hook")

// Clock is a virtual-time Delayer and Idler. Delays advance Elapsed
// immediately; hooks let a test inject events at chosen points.
type Clock struct {
	Elapsed uint64 // total virtual milliseconds
	Delays  []uint32
	Idles   int

	// OnDelay runs after each delay is accounted, with the delay's index.
	OnDelay func(i int, ms uint32)
	// OnIdle runs for each idle wait and stands in for the next interrupt.
	OnIdle func(i int) error
}

func (c *Clock) Delay(ms uint32) {
	i := len(c.Delays)
	c.Delays = append(c.Delays, ms)
	c.Elapsed += uint64(ms)
	if c.OnDelay != nil {
		c.OnDelay(i, ms)
	}
}

func (c *Clock) Idle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i := c.Idles
	c.Idles++
	if c.OnIdle == nil {
		return ErrNoIdleHook
	}
	return c.OnIdle(i)
}

// Level is a settable hw.Pin.
type Level struct {
	mu sync.Mutex
	v  bool
}

func (l *Level) Get() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v
}

func (l *Level) Set(v bool) {
	l.mu.Lock()
	l.v = v
	l.mu.Unlock()
}

// Section is a CriticalSection that counts entries and reports whether a
// call is currently inside it.
type Section struct {
	mu      sync.Mutex
	Entries int
	inside  bool
}

func (s *Section) Do(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries++
	s.inside = true
	f()
	s.inside = false
}

// Inside reports whether the caller is running within Do. Only meaningful
// when called from inside f.
func (s *Section) Inside() bool {
	return s.inside
}
