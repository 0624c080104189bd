// Package run provides run ID generation and lifecycle management.
package run

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of an analysis run.
type State int

const (
	// StateReceived - Input accepted, transcription pending.
	StateReceived State = iota
	// StateTranscribed - Transcript available, text analysis pending.
	StateTranscribed
	// StateCompleted - Result produced.
	StateCompleted
	// StateFailed - A stage failed; no result is produced.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateReceived:
		return "RECEIVED"
	case StateTranscribed:
		return "TRANSCRIBED"
	case StateCompleted:
		return "COMPLETED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal (COMPLETED or FAILED).
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Errors for invalid state transitions.
var (
	ErrRunFinished        = errors.New("run is finished")
	ErrAlreadyTranscribed = errors.New("transcript already recorded for this run")
	ErrNotTranscribed     = errors.New("run has no transcript yet")
)

// Lifecycle manages the state machine for a single run.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	RECEIVED → TRANSCRIBED → COMPLETED
//	    │           │
//	    └───────────┴── Fail() ──→ FAILED
type Lifecycle struct {
	mu    sync.RWMutex
	runId string
	state State
	stage string
}

// NewLifecycle creates a new run lifecycle in RECEIVED state.
func NewLifecycle(runId string) *Lifecycle {
	return &Lifecycle{
		runId: runId,
		state: StateReceived,
	}
}

// RunId returns the run ID.
func (l *Lifecycle) RunId() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.runId
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// FailedStage returns the stage recorded by Fail, or "".
func (l *Lifecycle) FailedStage() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stage
}

// IsFinished returns true if the run is in a terminal state.
func (l *Lifecycle) IsFinished() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.IsTerminal()
}

// Transcribed transitions RECEIVED to TRANSCRIBED.
func (l *Lifecycle) Transcribed() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateReceived:
		l.state = StateTranscribed
		return nil
	case StateTranscribed:
		return ErrAlreadyTranscribed
	case StateCompleted, StateFailed:
		return ErrRunFinished
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// Complete transitions TRANSCRIBED to COMPLETED.
func (l *Lifecycle) Complete() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateTranscribed:
		l.state = StateCompleted
		return nil
	case StateReceived:
		return ErrNotTranscribed
	case StateCompleted, StateFailed:
		return ErrRunFinished
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// Fail transitions the run to FAILED and records the failing stage.
// Returns false if the run was already finished.
func (l *Lifecycle) Fail(stage string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateFailed
	l.stage = stage
	return true
}
