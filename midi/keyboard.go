package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"music-board/input"
)

// KeyboardController handles a standard MIDI keyboard. Four keys act as
// the buttons; there is nothing to light.
type KeyboardController struct {
	id       string
	keys     [input.NumButtons]uint8
	inPort   drivers.In
	stopFunc func()

	mu     sync.Mutex
	closed bool
	events chan ButtonEvent
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In, m Mapping) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:     id,
		keys:   m.Keys,
		inPort: inPort,
		events: make(chan ButtonEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ev, ok := Decode(msg, &kb.keys, nil)
			if !ok {
				return
			}
			kb.mu.Lock()
			defer kb.mu.Unlock()
			if kb.closed {
				return
			}
			select {
			case kb.events <- ev:
			default:
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) Events() <-chan ButtonEvent {
	return kb.events
}

// SetColor is a no-op for keyboards (no visual feedback)
func (kb *KeyboardController) SetColor([3]uint8) error {
	return nil
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if !kb.closed {
		kb.closed = true
		close(kb.events)
	}
	return nil
}
