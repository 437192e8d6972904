package playback

import (
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// otoBackend wraps the process-wide oto context. oto allows only one context
// per process, which matches the Device's single-owner contract.
type otoBackend struct {
	ctx *oto.Context
}

// openOtoBackend acquires the host audio context: stereo, 32-bit float
// little-endian samples. It blocks until the context is ready so the first
// player starts cleanly, with a timeout guarding against hosts that never
// deliver a device.
func openOtoBackend(sampleRate int) (audioBackend, error) {
	ctx, ready, err := oto.NewContext(sampleRate, 2, 0)
	if err != nil {
		return nil, err
	}
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("audio context not ready after 5s")
	}
	return &otoBackend{ctx: ctx}, nil
}

func (b *otoBackend) NewPlayer(r io.Reader) audioPlayer {
	return b.ctx.NewPlayer(r)
}

// Close suspends the context. oto offers no context teardown; suspension
// releases the output stream until a new device would resume it.
func (b *otoBackend) Close() error {
	return b.ctx.Suspend()
}
