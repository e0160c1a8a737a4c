package firmware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"music-board/firmware"
	"music-board/hw"
	"music-board/hw/hwtest"
	"music-board/input"
	"music-board/music"
	"music-board/player"
	"music-board/sim"
)

var catalog = music.Catalog{
	{Name: "one", Notes: []music.Note{music.N(music.C4, 11), music.N(music.E4, 12), music.N(music.G4, 13)}},
	{Name: "two", Notes: []music.Note{music.N(music.A4, 21)}},
}

func newFirmware(t *testing.T, delay hw.Delayer) (*firmware.Firmware, *sim.Buttons, *hwtest.Recorder) {
	t.Helper()
	var buttons sim.Buttons
	out := hwtest.NewRecorder()
	fw, err := firmware.New(firmware.Board{Pins: buttons.Pins(), Out: out}, catalog, firmware.Options{Delay: delay})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return fw, &buttons, out
}

// press holds b across two ticks and releases it across one more.
func press(fw *firmware.Firmware, b *sim.Buttons, btn input.Button) {
	b.Set(btn, true)
	fw.Tick()
	fw.Tick()
	b.Set(btn, false)
	fw.Tick()
}

func TestNewRejectsMissingPin(t *testing.T) {
	var buttons sim.Buttons
	pins := buttons.Pins()
	pins[input.Pause] = nil
	_, err := firmware.New(firmware.Board{Pins: pins, Out: sim.NewOutput()}, catalog, firmware.Options{})
	if err == nil {
		t.Fatal("missing pin accepted")
	}
	_, err = firmware.New(firmware.Board{Pins: buttons.Pins(), Out: sim.NewOutput()}, nil, firmware.Options{})
	if !errors.Is(err, music.ErrEmptyCatalog) {
		t.Fatalf("empty catalog: %v", err)
	}
}

func TestLightToggleFromTick(t *testing.T) {
	fw, b, out := newFirmware(t, &hwtest.Clock{})

	press(fw, b, input.Light)
	if !fw.Indicator().On() {
		t.Fatal("indicator still off")
	}
	for _, ch := range hw.Intensity {
		if !out.Enabled(ch) {
			t.Errorf("%s not enabled", ch)
		}
	}

	press(fw, b, input.Light)
	if fw.Indicator().On() {
		t.Fatal("indicator still on")
	}
	for _, ch := range hw.Intensity {
		if out.Enabled(ch) {
			t.Errorf("%s still enabled", ch)
		}
	}
}

func TestNextPressSkipsTrack(t *testing.T) {
	clock := &hwtest.Clock{}
	fw, b, out := newFirmware(t, clock)
	clock.OnDelay = func(_ int, ms uint32) {
		if ms == 12 {
			press(fw, b, input.Next)
		}
	}

	sig, err := fw.Player().PlayTrack(context.Background(), catalog[0])
	if err != nil || sig != player.Forward {
		t.Fatalf("PlayTrack = %v, %v; want forward", sig, err)
	}
	if got := out.Frequencies(); len(got) != 2 {
		t.Fatalf("frequencies = %v, want two notes", got)
	}
	if fw.Flags().Pending(input.Next) {
		t.Fatal("next request not consumed")
	}
}

func TestLightDoesNotDisturbPlayback(t *testing.T) {
	clock := &hwtest.Clock{}
	fw, b, out := newFirmware(t, clock)
	clock.OnDelay = func(_ int, ms uint32) {
		if ms == 11 {
			press(fw, b, input.Light)
		}
	}
	sig, err := fw.Player().PlayTrack(context.Background(), catalog[0])
	if err != nil || sig != player.Continue {
		t.Fatalf("PlayTrack = %v, %v", sig, err)
	}
	if len(out.Frequencies()) != 3 {
		t.Fatalf("frequencies = %v", out.Frequencies())
	}
	// The controller zeroes duties at the end but never touches enables.
	if !out.Enabled(hw.Red) {
		t.Fatal("indicator enable lost after track end")
	}
}

func TestZeroTimingPlaysBackToBack(t *testing.T) {
	clock := &hwtest.Clock{}
	fw, _, _ := newFirmware(t, clock)
	if _, err := fw.Player().PlayTrack(context.Background(), catalog[0]); err != nil {
		t.Fatalf("PlayTrack: %v", err)
	}
	want := []uint32{11, 12, 13}
	if len(clock.Delays) != len(want) {
		t.Fatalf("delays = %v, want %v", clock.Delays, want)
	}
	for i := range want {
		if clock.Delays[i] != want[i] {
			t.Fatalf("delays = %v, want %v", clock.Delays, want)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var buttons sim.Buttons
	out := sim.NewOutput()
	fw, err := firmware.New(firmware.Board{Pins: buttons.Pins(), Out: out}, catalog, firmware.Options{
		SampleHz: 1000,
		Timing:   player.Timing{LeadIn: time.Millisecond, Gap: time.Millisecond, TrackPause: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	buttons.Tap(input.Pause, 20*time.Millisecond)
	if err := fw.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
	if _, on := out.Tone(); on {
		t.Fatal("tone left on after Run")
	}
}
