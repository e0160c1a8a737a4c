package midi

import "music-board/input"

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// ButtonEvent is a board button line changing level on a controller.
type ButtonEvent struct {
	Button input.Button
	Down   bool
}

// Controller is a MIDI device standing in for the board's buttons
type Controller interface {
	ID() string
	Type() ControllerType

	// Button line changes, in arrival order
	Events() <-chan ButtonEvent

	// Shows the indicator colour, if the device has lights
	SetColor(rgb [3]uint8) error

	Close() error
}

// Launchpad LED channel modes (MIDI channel of the colour note)
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
