package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"music-board/input"
)

// Mapping assigns MIDI messages to the four buttons. Index by input.Button.
type Mapping struct {
	Pads       [input.NumButtons]uint8 // pad notes on a Launchpad
	CCs        [input.NumButtons]uint8 // top-row CCs on a Launchpad
	Keys       [input.NumButtons]uint8 // keys on a plain keyboard
	LED        uint8                   // pad that mirrors the indicator, 0 for none
	Channel    uint8                   // LED channel mode
	Launchpads []string                // port name fragments, lowercase
	Keyboards  []string
}

// DefaultMapping uses the bottom-left pads and first top-row buttons of a
// Launchpad X, and C4 D4 E4 F4 on a keyboard.
func DefaultMapping() Mapping {
	return Mapping{
		Pads:       [input.NumButtons]uint8{11, 12, 13, 14},
		CCs:        [input.NumButtons]uint8{91, 92, 93, 94},
		Keys:       [input.NumButtons]uint8{60, 62, 64, 65},
		LED:        18,
		Channel:    ChannelStatic,
		Launchpads: []string{"launchpad"},
	}
}

// Decode maps msg to a button event. Note on with velocity is a press;
// note off, or note on with zero velocity, is a release. CCs press on
// any non-zero value. notes selects the note table (Pads or Keys).
func Decode(msg gomidi.Message, notes, ccs *[input.NumButtons]uint8) (ButtonEvent, bool) {
	var channel, key, velocity, cc, value uint8

	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		if b, ok := lookup(notes, key); ok {
			return ButtonEvent{Button: b, Down: true}, true
		}
	case msg.GetNoteEnd(&channel, &key):
		if b, ok := lookup(notes, key); ok {
			return ButtonEvent{Button: b, Down: false}, true
		}
	case msg.GetControlChange(&channel, &cc, &value):
		if b, ok := lookup(ccs, cc); ok {
			return ButtonEvent{Button: b, Down: value > 0}, true
		}
	}
	return ButtonEvent{}, false
}

func lookup(table *[input.NumButtons]uint8, v uint8) (input.Button, bool) {
	if table == nil {
		return 0, false
	}
	for _, b := range input.Buttons {
		if table[b] == v && v != 0 {
			return b, true
		}
	}
	return 0, false
}
