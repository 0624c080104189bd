// Package openai provides a Whisper transcription adapter over the OpenAI API.
package openai

import (
	"context"
	"errors"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing OpenAI API key")

// Config holds Whisper client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Adapter implements stt.Transcriber using the audio transcription endpoint.
type Adapter struct {
	client *goopenai.Client
	model  string
}

// New creates a new Whisper adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = goopenai.Whisper1
	}

	return &Adapter{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return "openai"
}

// Transcribe uploads the clip and returns the recognized text.
func (a *Adapter) Transcribe(ctx context.Context, path, languageCode string) (string, error) {
	resp, err := a.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    a.model,
		FilePath: path,
		Language: languageCode,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
