package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"music-board/input"
)

func TestDecodePads(t *testing.T) {
	m := DefaultMapping()
	cases := []struct {
		name string
		msg  gomidi.Message
		want ButtonEvent
		ok   bool
	}{
		{"pad press", gomidi.NoteOn(0, 12, 100), ButtonEvent{input.Next, true}, true},
		{"pad release", gomidi.NoteOff(0, 12), ButtonEvent{input.Next, false}, true},
		{"zero velocity release", gomidi.NoteOn(0, 11, 0), ButtonEvent{input.Previous, false}, true},
		{"cc press", gomidi.ControlChange(0, 93, 127), ButtonEvent{input.Pause, true}, true},
		{"cc release", gomidi.ControlChange(0, 94, 0), ButtonEvent{input.Light, false}, true},
		{"unmapped pad", gomidi.NoteOn(0, 55, 100), ButtonEvent{}, false},
		{"unmapped cc", gomidi.ControlChange(0, 7, 64), ButtonEvent{}, false},
	}
	for _, c := range cases {
		got, ok := Decode(c.msg, &m.Pads, &m.CCs)
		if ok != c.ok || got != c.want {
			t.Errorf("%s: Decode = %+v, %v; want %+v, %v", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestDecodeKeysIgnoresCC(t *testing.T) {
	m := DefaultMapping()
	if ev, ok := Decode(gomidi.NoteOn(3, 64, 90), &m.Keys, nil); !ok || ev.Button != input.Pause || !ev.Down {
		t.Fatalf("E4 = %+v, %v", ev, ok)
	}
	if _, ok := Decode(gomidi.ControlChange(0, 91, 1), &m.Keys, nil); ok {
		t.Fatal("keyboard mapped a CC")
	}
}

func TestClassify(t *testing.T) {
	m := DefaultMapping()
	m.Keyboards = []string{"keystation"}
	cases := map[string]ControllerType{
		"Launchpad X LPX MIDI": ControllerLaunchpad,
		"Launchpad X LPX DAW":  ControllerUnknown,
		"Keystation 49 MK3":    ControllerKeyboard,
		"Midi Through Port-0":  ControllerUnknown,
	}
	for name, want := range cases {
		if got := classify(name, m); got != want {
			t.Errorf("classify(%q) = %s, want %s", name, got, want)
		}
	}
}

type lineLog struct {
	sets []ButtonEvent
}

func (l *lineLog) Set(b input.Button, high bool) {
	l.sets = append(l.sets, ButtonEvent{b, high})
}

func TestForwardReleasesHeldLines(t *testing.T) {
	events := make(chan ButtonEvent, 4)
	events <- ButtonEvent{input.Next, true}
	events <- ButtonEvent{input.Next, false}
	events <- ButtonEvent{input.Pause, true}
	close(events)

	var lines lineLog
	Forward(events, &lines)

	want := []ButtonEvent{
		{input.Next, true},
		{input.Next, false},
		{input.Pause, true},
		{input.Pause, false},
	}
	if len(lines.sets) != len(want) {
		t.Fatalf("sets = %+v, want %+v", lines.sets, want)
	}
	for i := range want {
		if lines.sets[i] != want[i] {
			t.Fatalf("set %d = %+v, want %+v", i, lines.sets[i], want[i])
		}
	}
}

func TestPaletteMatch(t *testing.T) {
	cases := map[[3]uint8]uint8{
		{0, 0, 0}:       0,
		{255, 0, 0}:     5,
		{0, 255, 0}:     21,
		{255, 255, 255}: 119,
		{250, 5, 5}:     5,
	}
	for rgb, want := range cases {
		if got := mapRGBToLaunchpad(rgb); got != want {
			t.Errorf("mapRGBToLaunchpad(%v) = %d, want %d", rgb, got, want)
		}
	}
}
