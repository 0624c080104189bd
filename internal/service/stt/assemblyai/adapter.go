// Package assemblyai provides an AssemblyAI transcription adapter.
package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing AssemblyAI API key")

// Adapter implements stt.Transcriber by uploading the clip and waiting for
// the transcript to complete.
type Adapter struct {
	client *aai.Client
}

// New creates a new AssemblyAI adapter.
func New(apiKey string) (*Adapter, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Adapter{client: aai.NewClient(apiKey)}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return "assemblyai"
}

// Transcribe uploads the clip and blocks until the transcript is ready.
func (a *Adapter) Transcribe(ctx context.Context, path, languageCode string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	transcript, err := a.client.Transcripts.TranscribeFromReader(ctx, f, requestParams(languageCode))
	if err != nil {
		return "", err
	}
	return transcriptText(transcript)
}

func requestParams(languageCode string) *aai.TranscriptOptionalParams {
	params := &aai.TranscriptOptionalParams{
		Punctuate:  aai.Bool(true),
		FormatText: aai.Bool(true),
	}
	if languageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(languageCode)
	}
	return params
}

func transcriptText(t aai.Transcript) (string, error) {
	if t.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if t.Error != nil {
			msg = *t.Error
		}
		return "", fmt.Errorf("transcription failed: %s", msg)
	}
	if t.Text == nil {
		return "", nil
	}
	return strings.TrimSpace(*t.Text), nil
}
