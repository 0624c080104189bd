package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Uploader validates uploaded files and writes them as clips.
type Uploader struct {
	limits  Limits
	tempDir string
}

// NewUploader creates an uploader writing clips to tempDir.
func NewUploader(limits Limits, tempDir string) *Uploader {
	return &Uploader{limits: limits, tempDir: tempDir}
}

// FormatOf returns the supported format for a file name, by extension.
func FormatOf(filename string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case FormatWAV, FormatMP3, FormatM4A:
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Save reads at most MaxUploadBytes from r and produces a clip. WAV and MP3 are
// normalized to mono 16-bit WAV; M4A is stored as received.
func (u *Uploader) Save(filename string, r io.Reader) (*Clip, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, u.limits.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.limits.MaxUploadBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, u.limits.MaxUploadBytes)
	}
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}

	if format == FormatM4A {
		return u.storeVerbatim(format, data)
	}

	var samples []int
	var rate int
	if format == FormatWAV {
		samples, rate, err = decodeWAV(data)
	} else {
		samples, rate, err = decodeMP3(data)
	}
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 || rate <= 0 {
		return nil, ErrEmptyAudio
	}

	path, size, err := writeWAV(u.tempDir, samples, rate)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("format", format).
		Int("uploadBytes", len(data)).
		Int("sampleRate", rate).
		Msg("Upload normalized to wav")

	return &Clip{
		Path:         path,
		Format:       FormatWAV,
		SampleRateHz: rate,
		Duration:     samplesDuration(len(samples), rate),
		Bytes:        size,
	}, nil
}

func (u *Uploader) storeVerbatim(format string, data []byte) (*Clip, error) {
	f, err := os.CreateTemp(u.tempDir, "clip-*."+format)
	if err != nil {
		return nil, fmt.Errorf("create clip file: %w", err)
	}
	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write clip: %w", werr)
	}
	return &Clip{Path: f.Name(), Format: format, Bytes: int64(len(data))}, nil
}

func samplesDuration(n, rate int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(rate)
}
