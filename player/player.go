// Package player runs the melody playback loop: it walks the notes of the
// selected track, drives the tone and indicator outputs, and reacts to the
// navigation and pause requests raised by the input sampler.
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"music-board/debug"
	"music-board/hw"
	"music-board/input"
	"music-board/music"
)

// State is the controller's playback state.
type State int

const (
	Playing State = iota
	Paused
	Switching
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Switching:
		return "switching"
	}
	return "unknown"
}

// Signal is the outcome of an interruption check. Forward and Backward end
// the current track; they are control transfers, not errors.
type Signal int

const (
	Continue Signal = iota
	Forward
	Backward
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return "unknown"
}

// toneDivisor sets the tone channel to a 50% duty square wave.
const toneDivisor = 2

// Timing holds the fixed pauses around notes and tracks.
type Timing struct {
	LeadIn     time.Duration // before the first note of a track
	Gap        time.Duration // silence after every note
	TrackPause time.Duration // silence after the last note
}

// DefaultTiming matches the reference board.
func DefaultTiming() Timing {
	return Timing{
		LeadIn:     300 * time.Millisecond,
		Gap:        10 * time.Millisecond,
		TrackPause: 1500 * time.Millisecond,
	}
}

// Status is a snapshot of what the controller is doing.
type Status struct {
	State State
	Track int
	Name  string
	Note  int // index of the sounding note, -1 before the first
	Notes int
	Pitch music.Pitch
}

// Config wires a Controller to its board.
type Config struct {
	Catalog music.Catalog
	Output  hw.Output // must serialize with the interrupt context, see hw.Guard
	Flags   *input.Flags
	Delay   hw.Delayer
	Idle    hw.Idler
	Timing  Timing
	Start   int // initial track index, wrapped into range
}

// Controller is the foreground playback loop. Only Status, Cursor and
// Updates may be called from other goroutines.
type Controller struct {
	catalog music.Catalog
	out     hw.Output
	flags   *input.Flags
	delay   hw.Delayer
	idle    hw.Idler
	timing  Timing

	cursor music.Cursor

	mu      sync.RWMutex
	status  Status
	updates chan struct{}
}

// New returns a controller positioned at cfg.Start in the Playing state.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	if cfg.Output == nil || cfg.Flags == nil || cfg.Delay == nil || cfg.Idle == nil {
		return nil, fmt.Errorf("player: incomplete board config")
	}
	cursor := music.NewCursor(cfg.Catalog.Len(), cfg.Start)
	return &Controller{
		catalog: cfg.Catalog,
		out:     cfg.Output,
		flags:   cfg.Flags,
		delay:   cfg.Delay,
		idle:    cfg.Idle,
		timing:  cfg.Timing,
		cursor:  cursor,
		status: Status{
			State: Playing,
			Track: cursor.Index(),
			Name:  cfg.Catalog.Track(cursor.Index()).Name,
			Note:  -1,
		},
		updates: make(chan struct{}, 1),
	}, nil
}

// Run plays the catalog forever, starting at the cursor. It only returns
// when ctx is done, with the outputs silenced.
func (c *Controller) Run(ctx context.Context) error {
	for {
		track := c.catalog.Track(c.cursor.Index())
		sig, err := c.PlayTrack(ctx, track)
		if err != nil {
			return err
		}
		c.Advance(sig)
	}
}

// PlayTrack plays t from its first note. It returns Continue when the track
// ran to the end, or the navigation signal that cut it short.
func (c *Controller) PlayTrack(ctx context.Context, t music.Track) (Signal, error) {
	debug.Log("player", "playing %q (%d notes)", t.Name, len(t.Notes))
	c.update(func(s *Status) {
		s.State = Playing
		s.Name = t.Name
		s.Note = -1
		s.Notes = len(t.Notes)
		s.Pitch = music.Rest
	})
	c.hold(c.timing.LeadIn)

	for i, n := range t.Notes {
		if err := ctx.Err(); err != nil {
			c.silence()
			return Continue, err
		}
		sig, err := c.Check(ctx)
		if err != nil {
			c.silence()
			return Continue, err
		}
		if sig != Continue {
			return c.abort(sig), nil
		}

		c.update(func(s *Status) {
			s.Note = i
			s.Pitch = n.Pitch
		})
		c.playNote(n)
	}

	c.out.Disable(hw.Tone)
	c.update(func(s *Status) { s.Pitch = music.Rest })
	c.hold(c.timing.TrackPause)

	sig, err := c.Check(ctx)
	if err != nil {
		c.silence()
		return Continue, err
	}
	if sig != Continue {
		return c.abort(sig), nil
	}
	c.silence()
	return Continue, nil
}

func (c *Controller) abort(sig Signal) Signal {
	c.silence()
	c.update(func(s *Status) {
		s.State = Switching
		s.Pitch = music.Rest
	})
	return sig
}

// Advance moves the cursor after a track ends: back on Backward, forward
// otherwise.
func (c *Controller) Advance(sig Signal) {
	if sig == Backward {
		c.cursor.Previous()
	} else {
		c.cursor.Next()
	}
	idx := c.cursor.Index()
	c.update(func(s *Status) {
		s.Track = idx
		s.Name = c.catalog.Track(idx).Name
		s.Note = -1
	})
}

// Check is the interruption check run before every note and once after a
// track ends. A pending pause request suspends playback until another pause
// request resumes it; navigation requests are honoured while paused.
func (c *Controller) Check(ctx context.Context) (Signal, error) {
	if !c.flags.Take(input.Pause) {
		return c.navigation(), nil
	}

	debug.Log("player", "paused")
	c.update(func(s *Status) { s.State = Paused })
	for {
		if err := c.idle.Idle(ctx); err != nil {
			return Continue, err
		}
		if c.flags.Take(input.Pause) {
			debug.Log("player", "resumed")
			c.update(func(s *Status) { s.State = Playing })
			return Continue, nil
		}
		if sig := c.navigation(); sig != Continue {
			return sig, nil
		}
	}
}

// navigation takes a pending previous or next request. Previous wins a tie;
// either one discards the opposite request.
func (c *Controller) navigation() Signal {
	if c.flags.Take(input.Previous) {
		c.flags.Clear(input.Next)
		debug.Log("player", "previous track")
		return Backward
	}
	if c.flags.Take(input.Next) {
		c.flags.Clear(input.Previous)
		debug.Log("player", "next track")
		return Forward
	}
	return Continue
}

func (c *Controller) playNote(n music.Note) {
	duty := IntensityDuty(n.Pitch, [3]uint32{
		c.out.MaxDuty(hw.Red),
		c.out.MaxDuty(hw.Green),
		c.out.MaxDuty(hw.Blue),
	})
	for i, ch := range hw.Intensity {
		c.out.SetDuty(ch, duty[i])
	}

	if n.Pitch.IsRest() {
		c.out.Disable(hw.Tone)
	} else {
		c.out.SetFrequency(n.Pitch.Hz())
		c.out.SetDuty(hw.Tone, c.out.MaxDuty(hw.Tone)/toneDivisor)
		c.out.Enable(hw.Tone)
	}
	c.delay.Delay(uint32(n.Ms))

	c.out.Disable(hw.Tone)
	c.hold(c.timing.Gap)
}

// silence leaves the outputs in a known state between tracks: tone off and
// indicator dark. The indicator's enable state belongs to the light button
// and is left alone.
func (c *Controller) silence() {
	c.out.Disable(hw.Tone)
	for _, ch := range hw.Intensity {
		c.out.SetDuty(ch, 0)
	}
}

func (c *Controller) hold(d time.Duration) {
	if d > 0 {
		c.delay.Delay(uint32(d / time.Millisecond))
	}
}

// update applies f to the status and notifies watchers without blocking.
func (c *Controller) update(f func(s *Status)) {
	c.mu.Lock()
	f(&c.status)
	c.mu.Unlock()

	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// Status returns the current status snapshot.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Cursor returns the selected track index.
func (c *Controller) Cursor() int {
	return c.Status().Track
}

// Updates receives a value whenever the status changes. Signals coalesce.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// IntensityDuty maps a pitch to the three indicator duties. The mapping is
// cosmetic; it only has to be stable and to spread nearby pitches across
// visibly different colours.
func IntensityDuty(p music.Pitch, max [3]uint32) [3]uint32 {
	f := uint32(p)
	return [3]uint32{
		max[0] / (f%7 + 1),
		max[1] / (f%8 + 1),
		max[2] / (f%9 + 1),
	}
}
