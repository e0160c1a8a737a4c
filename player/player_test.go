package player_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"music-board/hw"
	"music-board/hw/hwtest"
	"music-board/input"
	"music-board/music"
	"music-board/player"
)

var (
	trackA = music.Track{Name: "A", Notes: []music.Note{
		music.N(music.A4, 101), music.N(music.B4, 102), music.N(music.C5, 103),
	}}
	trackB = music.Track{Name: "B", Notes: []music.Note{
		music.N(music.D5, 201), music.N(music.E5, 202),
	}}
)

type rig struct {
	out   *hwtest.Recorder
	clock *hwtest.Clock
	flags *input.Flags
	ctl   *player.Controller
}

func newRig(t *testing.T, catalog music.Catalog) *rig {
	t.Helper()
	r := &rig{
		out:   hwtest.NewRecorder(),
		clock: &hwtest.Clock{},
		flags: &input.Flags{},
	}
	ctl, err := player.New(player.Config{
		Catalog: catalog,
		Output:  r.out,
		Flags:   r.flags,
		Delay:   r.clock,
		Idle:    r.clock,
		Timing:  player.DefaultTiming(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.ctl = ctl
	return r
}

func hz(ps ...music.Pitch) []uint32 {
	out := make([]uint32, len(ps))
	for i, p := range ps {
		out[i] = p.Hz()
	}
	return out
}

func TestTrackCompletesAndAdvances(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop once track B's first note has sounded.
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 201 {
			cancel()
		}
	}
	err := r.ctl.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if r.ctl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", r.ctl.Cursor())
	}
	want := hz(music.A4, music.B4, music.C5, music.D5)
	if got := r.out.Frequencies(); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
	if r.out.Enabled(hw.Tone) {
		t.Fatal("tone left enabled after Run returned")
	}
}

func TestTrackTimingSequence(t *testing.T) {
	r := newRig(t, music.Catalog{trackB})
	sig, err := r.ctl.PlayTrack(context.Background(), trackB)
	if err != nil || sig != player.Continue {
		t.Fatalf("PlayTrack = %v, %v", sig, err)
	}
	want := []uint32{300, 201, 10, 202, 10, 1500}
	if !reflect.DeepEqual(r.clock.Delays, want) {
		t.Fatalf("delays = %v, want %v", r.clock.Delays, want)
	}
}

func TestNextDuringSecondNoteSkipsRest(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 102 {
			r.flags.Raise(input.Next)
		}
	}

	sig, err := r.ctl.PlayTrack(context.Background(), trackA)
	if err != nil {
		t.Fatalf("PlayTrack: %v", err)
	}
	if sig != player.Forward {
		t.Fatalf("signal = %v, want forward", sig)
	}
	if got, want := r.out.Frequencies(), hz(music.A4, music.B4); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v (third note must not play)", got, want)
	}
	for _, d := range r.clock.Delays {
		if d == 103 {
			t.Fatal("third note's duration elapsed")
		}
	}
	if r.out.Enabled(hw.Tone) {
		t.Fatal("tone still enabled after switch")
	}
	for _, ch := range hw.Intensity {
		if r.out.Duty(ch) != 0 {
			t.Errorf("%s duty = %d after switch, want 0", ch, r.out.Duty(ch))
		}
	}
	if st := r.ctl.Status(); st.State != player.Switching {
		t.Fatalf("state = %v, want switching", st.State)
	}

	r.ctl.Advance(sig)
	if r.ctl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", r.ctl.Cursor())
	}
}

func TestPreviousOnSingleTrackStaysPut(t *testing.T) {
	r := newRig(t, music.Catalog{trackA})
	r.flags.Raise(input.Previous)

	sig, err := r.ctl.PlayTrack(context.Background(), trackA)
	if err != nil || sig != player.Backward {
		t.Fatalf("PlayTrack = %v, %v; want backward", sig, err)
	}
	if len(r.out.Frequencies()) != 0 {
		t.Fatal("no note should play before the first check")
	}
	r.ctl.Advance(sig)
	if r.ctl.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", r.ctl.Cursor())
	}
}

func TestPreviousWinsTie(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	r.flags.Raise(input.Previous)
	r.flags.Raise(input.Next)

	sig, err := r.ctl.Check(context.Background())
	if err != nil || sig != player.Backward {
		t.Fatalf("Check = %v, %v; want backward", sig, err)
	}
	if r.flags.Pending(input.Next) {
		t.Fatal("next request must be discarded")
	}
	if sig, _ := r.ctl.Check(context.Background()); sig != player.Continue {
		t.Fatalf("second Check = %v, want exactly one navigation", sig)
	}
}

func TestNextClearsPrevious(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	r.flags.Raise(input.Next)

	if sig, _ := r.ctl.Check(context.Background()); sig != player.Forward {
		t.Fatalf("Check = %v, want forward", sig)
	}
	// A previous press landing after the next was taken is a new request.
	r.flags.Raise(input.Previous)
	if sig, _ := r.ctl.Check(context.Background()); sig != player.Backward {
		t.Fatalf("Check = %v, want backward", sig)
	}
}

func TestBackwardWrapsToLastTrack(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB, trackA})
	r.ctl.Advance(player.Backward)
	if r.ctl.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", r.ctl.Cursor())
	}
	r.ctl.Advance(player.Continue)
	if r.ctl.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", r.ctl.Cursor())
	}
	if st := r.ctl.Status(); st.Name != "A" {
		t.Fatalf("status name = %q, want A", st.Name)
	}
}

func TestPreviousDuringTrackPause(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB, trackA})
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 1500 {
			r.flags.Raise(input.Previous)
		}
	}

	sig, err := r.ctl.PlayTrack(context.Background(), trackA)
	if err != nil || sig != player.Backward {
		t.Fatalf("PlayTrack = %v, %v; want backward", sig, err)
	}
	if got, want := r.out.Frequencies(), hz(music.A4, music.B4, music.C5); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
	r.ctl.Advance(sig)
	if r.ctl.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", r.ctl.Cursor())
	}
	if r.flags.Pending(input.Previous) {
		t.Fatal("previous request not consumed")
	}
}

func TestNextDuringTrackPause(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB, trackA})
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 1500 {
			r.flags.Raise(input.Next)
		}
	}

	sig, err := r.ctl.PlayTrack(context.Background(), trackA)
	if err != nil || sig != player.Forward {
		t.Fatalf("PlayTrack = %v, %v; want forward", sig, err)
	}
	r.ctl.Advance(sig)
	if r.ctl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", r.ctl.Cursor())
	}
	if r.flags.Pending(input.Next) {
		t.Fatal("next request not consumed")
	}
	if got := len(r.out.Frequencies()); got != 3 {
		t.Fatalf("%d notes sounded, want 3", got)
	}
}

func TestPauseDuringTrackPauseHoldsNextTrack(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.clock.OnDelay = func(_ int, ms uint32) {
		switch ms {
		case 1500:
			r.flags.Raise(input.Pause)
		case 201:
			cancel()
		}
	}
	var delaysAtPause int
	r.clock.OnIdle = func(i int) error {
		if i == 0 {
			delaysAtPause = len(r.clock.Delays)
			if st := r.ctl.Status(); st.State != player.Paused || st.Track != 0 {
				t.Errorf("status while idle = %+v, want paused on track 0", st)
			}
		}
		if got, want := r.out.Frequencies(), hz(music.A4, music.B4, music.C5); !reflect.DeepEqual(got, want) {
			t.Errorf("idle %d: frequencies = %v, next track started while paused", i, got)
		}
		if len(r.clock.Delays) != delaysAtPause {
			t.Errorf("idle %d: delays moved while paused", i)
		}
		if i == 2 {
			r.flags.Raise(input.Pause)
		}
		return nil
	}

	if err := r.ctl.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if r.clock.Idles != 3 {
		t.Fatalf("idles = %d, want 3", r.clock.Idles)
	}
	if r.ctl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", r.ctl.Cursor())
	}
	if got, want := r.out.Frequencies(), hz(music.A4, music.B4, music.C5, music.D5); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
}

func TestPauseSuspendsUntilResumed(t *testing.T) {
	r := newRig(t, music.Catalog{trackA})
	r.flags.Raise(input.Pause)

	var opsAtPause int
	var elapsedAtPause uint64
	r.clock.OnIdle = func(i int) error {
		if i == 0 {
			opsAtPause = r.out.Len()
			elapsedAtPause = r.clock.Elapsed
			if st := r.ctl.Status(); st.State != player.Paused {
				t.Errorf("state = %v while idle, want paused", st.State)
			}
		}
		if r.out.Len() != opsAtPause || r.clock.Elapsed != elapsedAtPause {
			t.Errorf("idle %d: outputs or time moved while paused", i)
		}
		if i == 4 {
			r.flags.Raise(input.Pause)
		}
		return nil
	}

	sig, err := r.ctl.PlayTrack(context.Background(), trackA)
	if err != nil || sig != player.Continue {
		t.Fatalf("PlayTrack = %v, %v", sig, err)
	}
	if r.clock.Idles != 5 {
		t.Fatalf("idles = %d, want 5", r.clock.Idles)
	}
	if got, want := r.out.Frequencies(), hz(music.A4, music.B4, music.C5); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
}

func TestNavigationEscapesPause(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 101 {
			r.flags.Raise(input.Pause)
		}
	}
	r.clock.OnIdle = func(i int) error {
		if i == 2 {
			r.flags.Raise(input.Next)
		}
		return nil
	}

	sig, err := r.ctl.PlayTrack(context.Background(), trackA)
	if err != nil || sig != player.Forward {
		t.Fatalf("PlayTrack = %v, %v; want forward without resume", sig, err)
	}
	if got, want := r.out.Frequencies(), hz(music.A4); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
	r.ctl.Advance(sig)
	if r.ctl.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", r.ctl.Cursor())
	}
}

func TestResumeLeavesNavigationPending(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	r.flags.Raise(input.Pause)
	r.clock.OnIdle = func(int) error {
		r.flags.Raise(input.Pause)
		r.flags.Raise(input.Next)
		return nil
	}

	if sig, err := r.ctl.Check(context.Background()); err != nil || sig != player.Continue {
		t.Fatalf("Check = %v, %v; resume wins inside the pause loop", sig, err)
	}
	if sig, _ := r.ctl.Check(context.Background()); sig != player.Forward {
		t.Fatalf("next Check = %v, want the pending forward", sig)
	}
}

func TestPauseHonoursContext(t *testing.T) {
	r := newRig(t, music.Catalog{trackA})
	ctx, cancel := context.WithCancel(context.Background())
	r.flags.Raise(input.Pause)
	r.clock.OnIdle = func(i int) error {
		if i == 1 {
			cancel()
			return ctx.Err()
		}
		return nil
	}
	_, err := r.ctl.PlayTrack(ctx, trackA)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("PlayTrack = %v, want context.Canceled", err)
	}
	if r.out.Enabled(hw.Tone) {
		t.Fatal("tone enabled after cancel")
	}
}

func TestRestDisablesTone(t *testing.T) {
	track := music.Track{Name: "rests", Notes: []music.Note{
		music.N(music.Rest, 50), music.N(music.G4, 60), music.N(music.Rest, 70),
	}}
	r := newRig(t, music.Catalog{track})

	toneDuringRest := false
	r.clock.OnDelay = func(_ int, ms uint32) {
		if (ms == 50 || ms == 70) && r.out.Enabled(hw.Tone) {
			toneDuringRest = true
		}
		if ms == 60 && !r.out.Enabled(hw.Tone) {
			t.Error("tone not enabled during a pitched note")
		}
	}
	if _, err := r.ctl.PlayTrack(context.Background(), track); err != nil {
		t.Fatalf("PlayTrack: %v", err)
	}
	if toneDuringRest {
		t.Fatal("tone enabled during a rest")
	}
	if got, want := r.out.Frequencies(), hz(music.G4); !reflect.DeepEqual(got, want) {
		t.Fatalf("frequencies = %v, want %v", got, want)
	}
}

func TestToneDutyIsHalf(t *testing.T) {
	r := newRig(t, music.Catalog{trackB})
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 201 {
			if got := r.out.Duty(hw.Tone); got != hwtest.DefaultMaxDuty/2 {
				t.Errorf("tone duty = %d, want %d", got, hwtest.DefaultMaxDuty/2)
			}
		}
	}
	r.ctl.PlayTrack(context.Background(), trackB)
}

func TestGapSilencesTone(t *testing.T) {
	r := newRig(t, music.Catalog{trackB})
	r.clock.OnDelay = func(_ int, ms uint32) {
		if ms == 10 && r.out.Enabled(hw.Tone) {
			t.Error("tone enabled during the inter-note gap")
		}
	}
	r.ctl.PlayTrack(context.Background(), trackB)
}

func TestIntensityDutyIsStable(t *testing.T) {
	max := [3]uint32{1000, 1000, 1000}
	seen := map[[3]uint32]bool{}
	for _, p := range []music.Pitch{music.C4, music.D4, music.E4, music.F4, music.G4, music.A4, music.B4} {
		a := player.IntensityDuty(p, max)
		if b := player.IntensityDuty(p, max); a != b {
			t.Fatalf("%s: mapping not deterministic: %v vs %v", p, a, b)
		}
		for i, d := range a {
			if d == 0 || d > max[i] {
				t.Errorf("%s: duty %d out of range", p, d)
			}
		}
		seen[a] = true
	}
	if len(seen) < 5 {
		t.Errorf("only %d distinct colours for 7 pitches", len(seen))
	}
}

func TestUpdatesSignalled(t *testing.T) {
	r := newRig(t, music.Catalog{trackA, trackB})
	r.ctl.Advance(player.Forward)
	select {
	case <-r.ctl.Updates():
	default:
		t.Fatal("no update after Advance")
	}
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	_, err := player.New(player.Config{
		Output: hwtest.NewRecorder(),
		Flags:  &input.Flags{},
		Delay:  &hwtest.Clock{},
		Idle:   &hwtest.Clock{},
	})
	if !errors.Is(err, music.ErrEmptyCatalog) {
		t.Fatalf("New = %v, want ErrEmptyCatalog", err)
	}
}

func TestStartIndexWraps(t *testing.T) {
	ctl, err := player.New(player.Config{
		Catalog: music.Catalog{trackA, trackB},
		Output:  hwtest.NewRecorder(),
		Flags:   &input.Flags{},
		Delay:   &hwtest.Clock{},
		Idle:    &hwtest.Clock{},
		Start:   3,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ctl.Cursor() != 1 || ctl.Status().Name != "B" {
		t.Fatalf("cursor = %d (%s), want 1 (B)", ctl.Cursor(), ctl.Status().Name)
	}
}
