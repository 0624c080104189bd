// Package view shapes analysis results for the HTTP and gRPC surfaces.
package view

import (
	"math"

	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/service/intent"
)

// SentimentView is the displayed sentiment; the score is rounded to two decimals.
type SentimentView struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisResponse is the JSON body returned for a completed run.
type AnalysisResponse struct {
	InteractionID string               `json:"interactionId"`
	RunID         string               `json:"runId"`
	Source        string               `json:"source"`
	Transcript    string               `json:"transcript"`
	Sentiment     SentimentView        `json:"sentiment"`
	Intent        models.Intent        `json:"intent"`
	Entities      []models.Entity      `json:"entities"`
	Response      models.SalesResponse `json:"response"`
	DurationMs    int64                `json:"durationMs"`
}

// IntentRuleView describes one classifier rule.
type IntentRuleView struct {
	Order    int           `json:"order"`
	Intent   models.Intent `json:"intent"`
	Keywords []string      `json:"keywords"`
}

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error    string `json:"error"`
	Stage    string `json:"stage,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// Present converts a result to its response body.
func Present(res *models.AnalysisResult) AnalysisResponse {
	entities := res.Entities
	if entities == nil {
		entities = []models.Entity{}
	}
	return AnalysisResponse{
		InteractionID: res.InteractionID,
		RunID:         res.RunID,
		Source:        res.Source,
		Transcript:    res.Transcript,
		Sentiment: SentimentView{
			Label: res.Sentiment.Label,
			Score: RoundScore(res.Sentiment.Score),
		},
		Intent:     res.Intent,
		Entities:   entities,
		Response:   res.Response,
		DurationMs: res.Duration.Milliseconds(),
	}
}

// RoundScore rounds a confidence to two decimals.
func RoundScore(score float64) float64 {
	return math.Round(score*100) / 100
}

// PresentRules lists the classifier rules in evaluation order, ending with
// the General fallback.
func PresentRules() []IntentRuleView {
	rules := intent.Rules()
	out := make([]IntentRuleView, 0, len(rules)+1)
	for i, r := range rules {
		out = append(out, IntentRuleView{Order: i + 1, Intent: r.Intent, Keywords: r.Keywords})
	}
	out = append(out, IntentRuleView{Order: len(rules) + 1, Intent: models.IntentGeneral, Keywords: []string{}})
	return out
}
