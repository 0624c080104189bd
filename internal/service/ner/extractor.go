// Package ner defines the named-entity collaborator interface.
package ner

import (
	"context"

	"speech-analyzer-service/internal/models"
)

// Extractor finds named entities in text, ordered by first appearance.
// Callers never pass empty text.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, text string) ([]models.Entity, error)
}
