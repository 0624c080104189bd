package analysis

import (
	"errors"
	"fmt"

	"speech-analyzer-service/internal/service/audio"
)

// Stages a run can fail in.
const (
	StageInput         = "input"
	StageCapture       = "capture"
	StageTranscription = "transcription"
	StageSentiment     = "sentiment"
	StageEntities      = "entities"
)

// ErrEmptyText is returned for a text-only request with no text.
var ErrEmptyText = errors.New("text is empty")

// StageError is a collaborator failure that ended a run.
type StageError struct {
	Stage    string
	Provider string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Stage, e.Provider, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by the caller's input rather
// than a collaborator.
func IsInputError(err error) bool {
	return rejectReason(err) != ""
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, audio.ErrInvalidDuration):
		return "duration"
	case errors.Is(err, audio.ErrUnsupportedFormat):
		return "format"
	case errors.Is(err, audio.ErrTooLarge):
		return "size"
	case errors.Is(err, audio.ErrEmptyAudio):
		return "empty_audio"
	case errors.Is(err, ErrEmptyText):
		return "empty_text"
	default:
		return ""
	}
}
