// Package models defines the data structures shared by the analysis pipeline
// and the events it publishes.
package models

// Event types published by the analyzer.
const (
	EventTypeTranscriptFinal  = "interaction.transcript.final"
	EventTypeAnalysisComplete = "interaction.analysis.completed"
)

// TranscriptFinal is emitted once per run when transcription finishes.
type TranscriptFinal struct {
	EventType     string `json:"eventType" validate:"required"`
	InteractionID string `json:"interactionId" validate:"required"`
	RunID         string `json:"runId" validate:"required"`
	Timestamp     int64  `json:"timestamp" validate:"gt=0"`
	Source        string `json:"source" validate:"required,oneof=record upload"`
	Provider      string `json:"provider"`
	Text          string `json:"text"`
}

// AnalysisCompleted carries the full result of a run.
type AnalysisCompleted struct {
	EventType     string        `json:"eventType" validate:"required"`
	InteractionID string        `json:"interactionId" validate:"required"`
	RunID         string        `json:"runId" validate:"required"`
	Timestamp     int64         `json:"timestamp" validate:"gt=0"`
	Transcript    string        `json:"transcript"`
	Sentiment     Sentiment     `json:"sentiment"`
	Intent        Intent        `json:"intent" validate:"required,intent"`
	Entities      []Entity      `json:"entities"`
	Response      SalesResponse `json:"response"`
	DurationMs    int64         `json:"durationMs"`
}
