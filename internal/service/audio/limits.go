package audio

import (
	"fmt"
	"time"
)

// Limits bounds recordings and uploads.
type Limits struct {
	SampleRateHz   int
	DefaultSeconds int
	MinSeconds     int
	MaxSeconds     int
	MaxUploadBytes int64
}

// DefaultLimits returns the recording and upload bounds used by the service.
func DefaultLimits() Limits {
	return Limits{
		SampleRateHz:   44100,
		DefaultSeconds: 5,
		MinSeconds:     2,
		MaxSeconds:     20,
		MaxUploadBytes: 25 * 1024 * 1024, // 25MB
	}
}

// RecordDuration resolves a requested recording length. Zero selects the default.
func (l Limits) RecordDuration(seconds int) (time.Duration, error) {
	if seconds == 0 {
		seconds = l.DefaultSeconds
	}
	if seconds < l.MinSeconds || seconds > l.MaxSeconds {
		return 0, fmt.Errorf("%w: %ds not in [%d, %d]", ErrInvalidDuration, seconds, l.MinSeconds, l.MaxSeconds)
	}
	return time.Duration(seconds) * time.Second, nil
}
