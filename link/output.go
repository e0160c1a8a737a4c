package link

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"music-board/debug"
	"music-board/hw"
)

// DefaultBaud matches the remote firmware.
const DefaultBaud = 115200

// Output sends every write as a frame. Write errors are logged and
// dropped; the player treats output writes as always succeeding.
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput returns an Output writing frames to w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

func (o *Output) send(f Frame) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data := f.Encode()
	if _, err := o.w.Write(data); err != nil {
		debug.Log("link", "write cmd %#02x: %v", f.Cmd, err)
		return
	}
	debug.Trace("link", "sent cmd %#02x (%d bytes)", f.Cmd, len(data))
}

func (o *Output) SetFrequency(hz uint32) {
	o.send(frequencyFrame(hz))
}

func (o *Output) SetDuty(ch hw.Channel, duty uint32) {
	o.send(dutyFrame(ch, duty))
}

func (o *Output) MaxDuty(hw.Channel) uint32 {
	return MaxDuty
}

func (o *Output) Enable(ch hw.Channel) {
	o.send(channelFrame(CmdEnable, ch))
}

func (o *Output) Disable(ch hw.Channel) {
	o.send(channelFrame(CmdDisable, ch))
}

// Port is an Output over an open serial device.
type Port struct {
	*Output
	port serial.Port
}

// Open opens the named serial device at baud (DefaultBaud when zero).
func Open(name string, baud int) (*Port, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", name, err)
	}
	debug.Log("link", "opened %s at %d baud", name, baud)
	return &Port{Output: NewOutput(p), port: p}, nil
}

// Close closes the serial device.
func (p *Port) Close() error {
	debug.Log("link", "closing port")
	return p.port.Close()
}

// Ports lists the serial devices present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
