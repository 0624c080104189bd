package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Capture records mono 16-bit samples from an input device. It blocks for d
// or until ctx ends.
type Capture interface {
	Capture(ctx context.Context, sampleRate int, d time.Duration) ([]int16, error)
}

// Recorder records bounded clips from a Capture.
type Recorder struct {
	capture Capture
	limits  Limits
	tempDir string
}

// NewRecorder creates a recorder writing clips to tempDir.
func NewRecorder(capture Capture, limits Limits, tempDir string) *Recorder {
	return &Recorder{capture: capture, limits: limits, tempDir: tempDir}
}

// Limits returns the recorder's bounds.
func (r *Recorder) Limits() Limits {
	return r.limits
}

// Record captures seconds of audio (0 selects the default) into a WAV clip.
func (r *Recorder) Record(ctx context.Context, seconds int) (*Clip, error) {
	d, err := r.limits.RecordDuration(seconds)
	if err != nil {
		return nil, err
	}

	log.Info().Dur("duration", d).Int("sampleRate", r.limits.SampleRateHz).Msg("Recording started")

	pcm, err := r.capture.Capture(ctx, r.limits.SampleRateHz, d)
	if err != nil {
		return nil, fmt.Errorf("capture audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, ErrEmptyAudio
	}

	samples := make([]int, len(pcm))
	for i, s := range pcm {
		samples[i] = int(s)
	}

	path, size, err := writeWAV(r.tempDir, samples, r.limits.SampleRateHz)
	if err != nil {
		return nil, err
	}

	log.Info().Int("samples", len(samples)).Str("path", path).Msg("Recording saved")

	return &Clip{
		Path:         path,
		Format:       FormatWAV,
		SampleRateHz: r.limits.SampleRateHz,
		Duration:     samplesDuration(len(samples), r.limits.SampleRateHz),
		Bytes:        size,
	}, nil
}
