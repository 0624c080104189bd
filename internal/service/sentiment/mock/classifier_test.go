package mock

import (
	"context"
	"testing"

	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/service/sentiment"
)

var _ sentiment.Classifier = (*Classifier)(nil)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		text      string
		wantLabel string
	}{
		{"The camera on this model is not working, it's a real problem", models.SentimentNegative},
		{"I love this phone, it's great", models.SentimentPositive},
		{"What time do you open?", models.SentimentPositive},
		{"It's good but too expensive and broken", models.SentimentNegative},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("expected %s, got %s", tt.wantLabel, got.Label)
			}
			if got.Score <= 0 || got.Score > 1 {
				t.Errorf("score out of range: %v", got.Score)
			}
		})
	}
}

func TestClassifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Classify(ctx, "great"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
