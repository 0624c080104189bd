package events

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/observability/metrics"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.Enabled() {
				t.Error("expected publisher to be disabled")
			}
			if p.writerTranscript != nil || p.writerAnalysis != nil {
				t.Error("expected nil writers when disabled")
			}
		})
	}
}

func TestNew_EnabledCreatesWriters(t *testing.T) {
	p := New(&Config{
		Enabled:         true,
		Brokers:         []string{"localhost:9092"},
		TopicTranscript: "test.transcript",
		TopicAnalysis:   "test.analysis",
		Metrics:         metrics.NewMetrics(prometheus.NewRegistry()),
	})
	defer p.Close()

	if !p.Enabled() {
		t.Fatal("expected publisher to be enabled")
	}
	if p.writerTranscript == nil || p.writerTranscript.Topic != "test.transcript" {
		t.Error("expected transcript writer on test.transcript")
	}
	if p.writerAnalysis == nil || p.writerAnalysis.Topic != "test.analysis" {
		t.Error("expected analysis writer on test.analysis")
	}
}

func TestNew_ConfigValues(t *testing.T) {
	p := New(&Config{
		Enabled:         false,
		Brokers:         []string{"localhost:9092"},
		TopicTranscript: "test.transcript",
		TopicAnalysis:   "test.analysis",
		Principal:       "test-principal",
	})

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicTranscript != "test.transcript" {
		t.Errorf("expected transcript topic 'test.transcript', got %s", p.topicTranscript)
	}
	if p.topicAnalysis != "test.analysis" {
		t.Errorf("expected analysis topic 'test.analysis', got %s", p.topicAnalysis)
	}
}

func TestPublisher_Disabled_RecordsMetrics(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	p := New(&Config{Enabled: false, TopicAnalysis: "test.analysis", Metrics: m})

	ev := models.AnalysisCompleted{
		EventType:     models.EventTypeAnalysisComplete,
		InteractionID: "int-123",
		RunID:         "int-123-run-1",
		Intent:        models.IntentGeneral,
	}
	if err := p.PublishAnalysis(context.Background(), "int-123", ev); err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}

	if got := testutil.ToFloat64(m.KafkaPublishTotal.WithLabelValues("test.analysis", "analysis")); got != 1 {
		t.Errorf("expected 1 recorded publish, got %v", got)
	}
}

func TestPublisher_PublishTranscript_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	ev := models.TranscriptFinal{EventType: models.EventTypeTranscriptFinal, Text: "hello"}
	if err := p.PublishTranscript(context.Background(), "test-key", ev); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Channels cannot be marshaled
	event := make(chan int)

	if err := p.PublishTranscript(context.Background(), "test-key", event); err == nil {
		t.Error("expected error for unmarshalable transcript event")
	}
	if err := p.PublishAnalysis(context.Background(), "test-key", event); err == nil {
		t.Error("expected error for unmarshalable analysis event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}

	empty := &Publisher{}
	if err := empty.Close(); err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}
