// Package stt defines the interface for Speech-to-Text adapters.
package stt

import (
	"context"
	"errors"
)

// ErrNoAudio is returned when the clip path is empty.
var ErrNoAudio = errors.New("no audio clip to transcribe")

// Transcriber defines the interface for STT providers (Google, Whisper,
// AssemblyAI, mock). Implementations return plain text and may return an
// empty string for silence.
type Transcriber interface {
	// Name returns the provider identifier used in logs and metrics.
	Name() string

	// Transcribe converts the audio file at path to text. languageCode is a
	// hint such as "en".
	Transcribe(ctx context.Context, path, languageCode string) (string, error)
}
