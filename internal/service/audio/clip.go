// Package audio turns microphone recordings and uploaded files into clips
// that the transcription collaborators can read.
package audio

import (
	"errors"
	"os"
	"time"
)

// Input errors. Transport layers map these to client errors.
var (
	ErrInvalidDuration   = errors.New("recording duration out of range")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrTooLarge          = errors.New("audio exceeds size limit")
	ErrEmptyAudio        = errors.New("audio is empty")
)

// Supported upload formats.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
	FormatM4A = "m4a"
)

// Clip is an audio file on disk owned by a single run.
type Clip struct {
	Path         string
	Format       string
	SampleRateHz int
	Duration     time.Duration
	Bytes        int64
}

// Remove deletes the clip's file. Safe to call on a nil clip.
func (c *Clip) Remove() error {
	if c == nil || c.Path == "" {
		return nil
	}
	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
