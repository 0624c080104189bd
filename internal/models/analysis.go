package models

import "time"

// Intent is the coarse customer purpose inferred from a transcript.
type Intent string

// The six intents, in the order the classifier checks them. General is the
// fallback when no rule matches.
const (
	IntentPurchaseInterest  Intent = "Purchase Interest"
	IntentAskForPrice       Intent = "Ask for Price"
	IntentComplaint         Intent = "Complaint"
	IntentProductComparison Intent = "Product Comparison"
	IntentAskForOffers      Intent = "Ask for Offers"
	IntentGeneral           Intent = "General"
)

// Intents lists every intent value.
var Intents = []Intent{
	IntentPurchaseInterest,
	IntentAskForPrice,
	IntentComplaint,
	IntentProductComparison,
	IntentAskForOffers,
	IntentGeneral,
}

// Sentiment labels. Classifiers may return others; only Negative changes
// the generated reply.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Sentiment is the polarity of a transcript with the collaborator's confidence.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NeutralSentiment is used when there is no text to classify.
func NeutralSentiment() Sentiment {
	return Sentiment{Label: SentimentNeutral, Score: 0}
}

// Entity is a named span of the transcript tagged with an entity type.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// SalesResponse is the canned three-part reply for an intent and sentiment.
type SalesResponse struct {
	NextQuestion   string `json:"nextQuestion"`
	SoftHandling   string `json:"softHandling"`
	Recommendation string `json:"recommendation"`
}

// Audio sources a run can start from.
const (
	SourceRecord = "record"
	SourceUpload = "upload"
	SourceText   = "text"
)

// AnalysisResult is everything a single run produces.
type AnalysisResult struct {
	RunID         string
	InteractionID string
	Source        string
	Transcript    string
	Sentiment     Sentiment
	Intent        Intent
	Entities      []Entity
	Response      SalesResponse
	StartedAt     time.Time
	Duration      time.Duration
}
