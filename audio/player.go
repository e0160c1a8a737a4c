package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"music-board/debug"
)

// DefaultSampleRate is used when the config leaves the rate unset.
const DefaultSampleRate = 44100

// Player streams a Square to the default sound device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	mu     sync.Mutex
}

// Open starts streaming the tone of src. Only one oto context may exist
// per process.
func Open(src Source, sampleRate int) (*Player, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	<-ready

	p := &Player{ctx: ctx}
	p.player = ctx.NewPlayer(NewSquare(src, sampleRate))
	p.player.Play()
	debug.Log("audio", "streaming at %d Hz", sampleRate)
	return p, nil
}

// Close stops the stream.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
