package midi

import (
	"context"
	"sync"
	"time"

	"music-board/debug"
	"music-board/input"
)

// Lines is where controller presses end up: the board's button lines.
type Lines interface {
	Set(b input.Button, high bool)
}

// Bridge feeds controller button events into the board's lines and
// mirrors the indicator colour onto every controller with lights.
type Bridge struct {
	dm     *DeviceManager
	lines  Lines
	color  func() [3]uint8
	period time.Duration
}

// NewBridge connects dm to lines. color is polled for the LED mirror and
// may be nil.
func NewBridge(dm *DeviceManager, lines Lines, color func() [3]uint8) *Bridge {
	return &Bridge{dm: dm, lines: lines, color: color, period: 50 * time.Millisecond}
}

// Run blocks until ctx is done, running the device manager with it.
func (br *Bridge) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		br.dm.Run(ctx)
	}()

	ticker := time.NewTicker(br.period)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-br.dm.Events():
			if !ok {
				wg.Wait()
				return
			}
			if ev.Type == DeviceConnected {
				wg.Add(1)
				go func(c Controller) {
					defer wg.Done()
					Forward(c.Events(), br.lines)
				}(ev.Controller)
			}
		case <-ticker.C:
			if br.color == nil {
				continue
			}
			rgb := br.color()
			for id, c := range br.dm.Controllers() {
				if err := c.SetColor(rgb); err != nil {
					debug.LogEvery(100, "midi", "%s: set colour: %v", id, err)
				}
			}
		}
	}
}

// Forward copies button events to lines until events is closed. A
// controller that disappears mid-press releases its line.
func Forward(events <-chan ButtonEvent, lines Lines) {
	var held [input.NumButtons]bool
	for ev := range events {
		held[ev.Button] = ev.Down
		lines.Set(ev.Button, ev.Down)
	}
	for _, b := range input.Buttons {
		if held[b] {
			lines.Set(b, false)
		}
	}
}
