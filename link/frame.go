// Package link mirrors the board's output writes to an external
// microcontroller over a serial line.
package link

import (
	"encoding/binary"
	"errors"
	"fmt"

	"music-board/hw"
)

const (
	SOF0 = 0xAA
	SOF1 = 0x55

	CmdFrequency = 0x20
	CmdDuty      = 0x21
	CmdEnable    = 0x22
	CmdDisable   = 0x23
)

// MaxDuty is the duty range carried on the wire.
const MaxDuty = 0xFFFF

var (
	ErrShortFrame = errors.New("link: short frame")
	ErrSync       = errors.New("link: bad start of frame")
	ErrChecksum   = errors.New("link: checksum mismatch")
)

// Frame is one command to the remote board.
type Frame struct {
	Cmd     byte
	Payload []byte
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][payload...][CKS]
//
// LEN counts CMD and payload; CKS is the XOR of LEN, CMD and payload.
func (f Frame) Encode() []byte {
	length := byte(len(f.Payload) + 1)
	cks := length ^ f.Cmd
	for _, b := range f.Payload {
		cks ^= b
	}
	out := make([]byte, 0, len(f.Payload)+5)
	out = append(out, SOF0, SOF1, length, f.Cmd)
	out = append(out, f.Payload...)
	return append(out, cks)
}

// Decode parses one frame from the start of b and returns it with the
// number of bytes consumed.
func Decode(b []byte) (Frame, int, error) {
	if len(b) < 5 {
		return Frame{}, 0, ErrShortFrame
	}
	if b[0] != SOF0 || b[1] != SOF1 {
		return Frame{}, 0, ErrSync
	}
	length := int(b[2])
	if length < 1 {
		return Frame{}, 0, fmt.Errorf("link: zero length frame")
	}
	n := 3 + length + 1
	if len(b) < n {
		return Frame{}, 0, ErrShortFrame
	}
	cks := b[2]
	for _, c := range b[3 : n-1] {
		cks ^= c
	}
	if cks != b[n-1] {
		return Frame{}, 0, ErrChecksum
	}
	f := Frame{Cmd: b[3], Payload: append([]byte(nil), b[4:n-1]...)}
	return f, n, nil
}

func frequencyFrame(hz uint32) Frame {
	p := make([]byte, 4)
	binary.LittleEndian.PutUint32(p, hz)
	return Frame{Cmd: CmdFrequency, Payload: p}
}

func dutyFrame(ch hw.Channel, duty uint32) Frame {
	if duty > MaxDuty {
		duty = MaxDuty
	}
	p := []byte{byte(ch), 0, 0}
	binary.LittleEndian.PutUint16(p[1:], uint16(duty))
	return Frame{Cmd: CmdDuty, Payload: p}
}

func channelFrame(cmd byte, ch hw.Channel) Frame {
	return Frame{Cmd: cmd, Payload: []byte{byte(ch)}}
}
