// Package portaudio captures microphone input through PortAudio.
package portaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

const framesPerBuffer = 1024

// Capture implements audio.Capture on the default input device.
type Capture struct {
	mu sync.Mutex
}

// New initializes PortAudio. Call Close when done.
func New() (*Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initializing failed: %w", err)
	}
	return &Capture{}, nil
}

// Close terminates PortAudio.
func (c *Capture) Close() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("portaudio: terminating failed: %w", err)
	}
	return nil
}

// Capture records mono 16-bit samples for d. Cancelling ctx stops early and
// returns what was captured so far with ctx's error.
func (c *Capture) Capture(ctx context.Context, sampleRate int, d time.Duration) ([]int16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("portaudio: opening default stream failed: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("portaudio: starting stream failed: %w", err)
	}
	defer stream.Stop()

	total := int(d.Seconds() * float64(sampleRate))
	out := make([]int16, 0, total)
	for len(out) < total {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := stream.Read(); err != nil {
			// Overflows drop a buffer but the recording stays usable.
			if err == portaudio.InputOverflowed {
				log.Warn().Msg("portaudio: input overflowed")
				continue
			}
			return out, fmt.Errorf("portaudio: reading from stream failed: %w", err)
		}
		n := len(buf)
		if remaining := total - len(out); n > remaining {
			n = remaining
		}
		out = append(out, buf[:n]...)
	}
	return out, nil
}
