// Package huggingface classifies sentiment with a hosted text-classification model.
package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"speech-analyzer-service/internal/models"
	hf "speech-analyzer-service/internal/service/huggingface"
)

// ErrNoPrediction is returned when the model yields no labels.
var ErrNoPrediction = errors.New("sentiment model returned no prediction")

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier implements sentiment.Classifier.
type Classifier struct {
	client *hf.Client
	model  string
}

// New creates a classifier for model.
func New(client *hf.Client, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Name returns the provider identifier.
func (c *Classifier) Name() string {
	return "huggingface"
}

// Model returns the model id.
func (c *Classifier) Model() string {
	return c.model
}

// Classify returns the first prediction for text.
func (c *Classifier) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	body, err := c.client.Infer(ctx, c.model, text, nil)
	if err != nil {
		return models.Sentiment{}, err
	}
	return parse(body)
}

// parse accepts both the batched [[...]] and the flat [...] response shapes.
func parse(body []byte) (models.Sentiment, error) {
	var nested [][]prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return models.Sentiment{}, ErrNoPrediction
		}
		return toSentiment(nested[0][0]), nil
	}

	var flat []prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return models.Sentiment{}, fmt.Errorf("decode sentiment response: %w", err)
	}
	if len(flat) == 0 {
		return models.Sentiment{}, ErrNoPrediction
	}
	return toSentiment(flat[0]), nil
}

func toSentiment(p prediction) models.Sentiment {
	return models.Sentiment{Label: p.Label, Score: p.Score}
}
