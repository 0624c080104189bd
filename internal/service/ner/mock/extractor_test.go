package mock

import (
	"context"
	"testing"

	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/service/ner"
)

var _ ner.Extractor = (*Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.Entity
	}{
		{
			name: "ordered by position",
			text: "Is the Samsung Galaxy cheaper than the iPhone this weekend for $799?",
			want: []models.Entity{
				{Text: "Samsung", Label: "ORG"},
				{Text: "Galaxy", Label: "PRODUCT"},
				{Text: "iPhone", Label: "PRODUCT"},
				{Text: "this weekend", Label: "DATE"},
				{Text: "$799", Label: "MONEY"},
			},
		},
		{
			name: "money words",
			text: "I can pay 500 dollars tomorrow",
			want: []models.Entity{
				{Text: "500 dollars", Label: "MONEY"},
				{Text: "tomorrow", Label: "DATE"},
			},
		},
		{
			name: "nothing",
			text: "hello there",
			want: []models.Entity{},
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entities, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("entity %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
