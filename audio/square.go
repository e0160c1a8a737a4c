// Package audio renders the tone channel of a simulated board as sound.
package audio

import (
	"encoding/binary"
	"math"
)

// Source reports the tone currently requested of the output.
type Source interface {
	Tone() (hz uint32, on bool)
}

// amplitude keeps the square wave well below full scale.
const amplitude = 0.2

// Square generates a square wave that follows a Source. Phase is kept
// across frequency changes so note boundaries do not click.
type Square struct {
	src   Source
	rate  float64
	phase float64
}

func NewSquare(src Source, sampleRate int) *Square {
	return &Square{src: src, rate: float64(sampleRate)}
}

// Render fills buf with samples at the current tone. A disabled tone
// renders silence.
func (s *Square) Render(buf []float32) {
	hz, on := s.src.Tone()
	if !on || hz == 0 {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	step := float64(hz) / s.rate
	for i := range buf {
		if s.phase < 0.5 {
			buf[i] = amplitude
		} else {
			buf[i] = -amplitude
		}
		s.phase += step
		s.phase -= math.Floor(s.phase)
	}
}

// Read implements io.Reader with mono float32 little-endian samples, the
// format the player context is opened with.
func (s *Square) Read(p []byte) (int, error) {
	n := len(p) / 4
	buf := make([]float32, n)
	s.Render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}
