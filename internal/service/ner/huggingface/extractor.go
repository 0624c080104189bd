// Package huggingface extracts entities with a hosted token-classification model.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"speech-analyzer-service/internal/models"
	hf "speech-analyzer-service/internal/service/huggingface"
)

type span struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// Extractor implements ner.Extractor.
type Extractor struct {
	client *hf.Client
	model  string
}

// New creates an extractor for model.
func New(client *hf.Client, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

// Name returns the provider identifier.
func (e *Extractor) Name() string {
	return "huggingface"
}

// Model returns the model id.
func (e *Extractor) Model() string {
	return e.model
}

// Extract asks the model to merge sub-word tokens into whole spans.
func (e *Extractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	body, err := e.client.Infer(ctx, e.model, text, map[string]any{"aggregation_strategy": "simple"})
	if err != nil {
		return nil, err
	}
	return parse(body)
}

func parse(body []byte) ([]models.Entity, error) {
	var spans []span
	if err := json.Unmarshal(body, &spans); err != nil {
		return nil, fmt.Errorf("decode entity response: %w", err)
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	entities := make([]models.Entity, 0, len(spans))
	for _, s := range spans {
		word := strings.TrimSpace(s.Word)
		if word == "" {
			continue
		}
		label := s.EntityGroup
		if label == "" {
			label = strings.TrimPrefix(strings.TrimPrefix(s.Entity, "B-"), "I-")
		}
		entities = append(entities, models.Entity{Text: word, Label: label})
	}
	return entities, nil
}
