// Package mock provides a lexicon-based sentiment classifier for running
// without a hosted model.
package mock

import (
	"context"
	"strings"

	"speech-analyzer-service/internal/models"
)

var (
	positiveWords = []string{"good", "great", "love", "excellent", "happy", "interested", "thanks", "perfect", "nice"}
	negativeWords = []string{"bad", "not working", "problem", "issue", "terrible", "hate", "broken", "expensive", "disappointed", "complaint"}
)

// Classifier implements sentiment.Classifier by counting lexicon hits.
type Classifier struct{}

// New creates a mock classifier.
func New() *Classifier {
	return &Classifier{}
}

// Name returns the provider identifier.
func (c *Classifier) Name() string {
	return "mock"
}

// Classify labels text POSITIVE or NEGATIVE by which lexicon has more hits.
// Ties lean POSITIVE with a low score.
func (c *Classifier) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return models.Sentiment{}, err
	}

	lowered := strings.ToLower(text)
	pos := count(lowered, positiveWords)
	neg := count(lowered, negativeWords)

	switch {
	case neg > pos:
		return models.Sentiment{Label: models.SentimentNegative, Score: score(neg - pos)}, nil
	case pos > neg:
		return models.Sentiment{Label: models.SentimentPositive, Score: score(pos - neg)}, nil
	default:
		return models.Sentiment{Label: models.SentimentPositive, Score: 0.55}, nil
	}
}

func count(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func score(margin int) float64 {
	s := 0.7 + 0.1*float64(margin)
	if s > 0.99 {
		return 0.99
	}
	return s
}
