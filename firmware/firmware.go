// Package firmware assembles the player on a board: the periodic sampler
// interrupt on one goroutine and the playback controller on another.
package firmware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"music-board/debug"
	"music-board/hw"
	"music-board/indicator"
	"music-board/input"
	"music-board/music"
	"music-board/player"
)

// DefaultSampleHz is the button sampling rate of the reference board.
const DefaultSampleHz = 50

// Board is the hardware the firmware runs on.
type Board struct {
	Pins [input.NumButtons]hw.Pin
	Out  hw.Output
}

// Options tune a Firmware. Zero SampleHz and Delay take the defaults. Timing
// is used as given, so a zero Timing plays notes back to back.
type Options struct {
	SampleHz int
	Timing   player.Timing
	Start    int
	Delay    hw.Delayer // defaults to hw.Sleeper
}

// Firmware is a board with the player wired onto it.
type Firmware struct {
	board   Board
	flags   *input.Flags
	sampler *input.Sampler
	light   *indicator.Indicator
	ctl     *player.Controller
	cs      *hw.Lock
	wake    *hw.Wake
	period  time.Duration
	tracks  int
}

// New wires the sampler, indicator and controller onto board.
func New(board Board, catalog music.Catalog, opts Options) (*Firmware, error) {
	for i, p := range board.Pins {
		if p == nil {
			return nil, fmt.Errorf("firmware: %s pin not connected", input.Button(i))
		}
	}
	if board.Out == nil {
		return nil, fmt.Errorf("firmware: no output")
	}
	hz := opts.SampleHz
	if hz == 0 {
		hz = DefaultSampleHz
	}
	if hz < 0 {
		return nil, fmt.Errorf("firmware: sample rate %d Hz", hz)
	}
	if opts.Delay == nil {
		opts.Delay = hw.Sleeper{}
	}

	f := &Firmware{
		board:  board,
		flags:  &input.Flags{},
		cs:     &hw.Lock{},
		wake:   hw.NewWake(),
		period: time.Second / time.Duration(hz),
		tracks: catalog.Len(),
	}
	f.sampler = input.NewSampler(board.Pins, f.flags)
	f.light = indicator.New(board.Out, f.flags)

	ctl, err := player.New(player.Config{
		Catalog: catalog,
		Output:  hw.Guard(board.Out, f.cs),
		Flags:   f.flags,
		Delay:   opts.Delay,
		Idle:    f.wake,
		Timing:  opts.Timing,
		Start:   opts.Start,
	})
	if err != nil {
		return nil, err
	}
	f.ctl = ctl
	return f, nil
}

// Tick is the body of the sampler interrupt: sample the buttons, apply a
// light request, then release anything waiting for an interrupt.
func (f *Firmware) Tick() {
	f.cs.Do(func() {
		if e := f.sampler.Sample(); !e.Empty() {
			debug.Trace("input", "edges %04b", uint8(e))
		}
		f.light.Handle()
	})
	f.wake.Broadcast()
}

// Run starts the sampler interrupt and plays until ctx is done. The
// interrupt goroutine has stopped by the time Run returns.
func (f *Firmware) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hw.Timer{Period: f.period}.Run(ctx, f.Tick)
	}()

	debug.Log("firmware", "sampling at %v, %d tracks", f.period, f.tracks)
	err := f.ctl.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// Player returns the playback controller for observers.
func (f *Firmware) Player() *player.Controller {
	return f.ctl
}

// Indicator returns the indicator state owner.
func (f *Firmware) Indicator() *indicator.Indicator {
	return f.light
}

// Flags exposes the pending requests, for diagnostics.
func (f *Firmware) Flags() *input.Flags {
	return f.flags
}
