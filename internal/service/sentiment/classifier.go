// Package sentiment defines the sentiment collaborator interface.
package sentiment

import (
	"context"

	"speech-analyzer-service/internal/models"
)

// Classifier assigns a sentiment label and confidence to text. Callers never
// pass empty text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}
