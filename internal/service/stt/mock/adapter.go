// Package mock provides a mock STT adapter for running without cloud credentials.
// Each call returns the next canned customer utterance, cycling through the list.
package mock

import (
	"context"
	"os"
	"sync"
	"time"

	"speech-analyzer-service/internal/service/stt"
)

// DefaultUtterances provides sample sales-call utterances for simulation.
var DefaultUtterances = []string{
	"I'm interested in buying the new phone for my daughter",
	"How much does the premium model cost?",
	"The camera on this model is not working, it's a real problem",
	"Can you compare the battery life with last year's model?",
	"Is there any discount or deal this weekend?",
	"Thanks, I'll think about it",
}

// Adapter implements stt.Transcriber with canned responses.
type Adapter struct {
	mu         sync.Mutex
	utterances []string
	next       int
	delay      time.Duration
}

// New creates a mock adapter cycling through DefaultUtterances.
func New() *Adapter {
	return NewWithUtterances(DefaultUtterances, 0)
}

// NewWithUtterances creates a mock adapter over the given utterances and
// simulated processing delay.
func NewWithUtterances(utterances []string, delay time.Duration) *Adapter {
	return &Adapter{
		utterances: append([]string(nil), utterances...),
		delay:      delay,
	}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return "mock"
}

// Transcribe checks the clip exists and returns the next utterance.
func (a *Adapter) Transcribe(ctx context.Context, path, languageCode string) (string, error) {
	if path == "" {
		return "", stt.ErrNoAudio
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.utterances) == 0 {
		return "", nil
	}
	text := a.utterances[a.next%len(a.utterances)]
	a.next++
	return text, nil
}
