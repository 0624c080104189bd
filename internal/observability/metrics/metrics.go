// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speech_analyzer"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunsActive  prometheus.Gauge
	RunsSuccess prometheus.Counter
	RunsFailed  *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Analysis outcome metrics
	TranscriptsEmpty  prometheus.Counter
	IntentsTotal      *prometheus.CounterVec
	SentimentsTotal   *prometheus.CounterVec
	EntitiesExtracted prometheus.Counter

	// Collaborator metrics
	CollaboratorLatency *prometheus.HistogramVec
	CollaboratorErrors  *prometheus.CounterVec

	// Audio metrics
	AudioBytesReceived prometheus.Counter
	InputsRejected     *prometheus.CounterVec

	// gRPC metrics
	GRPCRequests        *prometheus.CounterVec
	GRPCRequestDuration *prometheus.HistogramVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance registered with the default registry.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of analysis runs started",
		}, []string{"source"}),
		RunsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_active",
			Help:      "Number of analysis runs in progress",
		}),
		RunsSuccess: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_success_total",
			Help:      "Total number of successfully completed runs",
		}),
		RunsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Total number of failed runs",
		}, []string{"stage"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of analysis runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),

		TranscriptsEmpty: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_empty_total",
			Help:      "Total number of runs whose transcript was empty",
		}),
		IntentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Total number of classified intents by label",
		}, []string{"intent"}),
		SentimentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiments_total",
			Help:      "Total number of sentiment results by label",
		}, []string{"label"}),
		EntitiesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_extracted_total",
			Help:      "Total number of named entities extracted",
		}),

		CollaboratorLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collaborator_latency_seconds",
			Help:      "Latency of external model calls in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"collaborator", "provider"}),
		CollaboratorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_errors_total",
			Help:      "Total number of external model call failures",
		}, []string{"collaborator", "provider"}),

		AudioBytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total audio bytes recorded or uploaded",
		}),
		InputsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_rejected_total",
			Help:      "Total number of rejected audio or text inputs",
		}, []string{"reason"}),

		GRPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of unary gRPC calls by method and status code",
		}, []string{"method", "code"}),
		GRPCRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "Duration of unary gRPC calls in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"method"}),

		KafkaPublishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordRunStart records a new run starting.
func (m *Metrics) RecordRunStart(source string) {
	m.RunsTotal.WithLabelValues(source).Inc()
	m.RunsActive.Inc()
}

// RecordRunEnd records a run ending. stage is empty on success.
func (m *Metrics) RecordRunEnd(stage string, durationSeconds float64) {
	m.RunsActive.Dec()
	m.RunDuration.Observe(durationSeconds)
	if stage == "" {
		m.RunsSuccess.Inc()
	} else {
		m.RunsFailed.WithLabelValues(stage).Inc()
	}
}

// RecordEmptyTranscript records a run whose transcript was empty.
func (m *Metrics) RecordEmptyTranscript() {
	m.TranscriptsEmpty.Inc()
}

// RecordAnalysis records the outcome of a completed analysis.
func (m *Metrics) RecordAnalysis(intent, sentimentLabel string, entityCount int) {
	m.IntentsTotal.WithLabelValues(intent).Inc()
	m.SentimentsTotal.WithLabelValues(sentimentLabel).Inc()
	m.EntitiesExtracted.Add(float64(entityCount))
}

// RecordCollaboratorCall records the latency and outcome of a model call.
func (m *Metrics) RecordCollaboratorCall(collaborator, provider string, err error, latencySeconds float64) {
	m.CollaboratorLatency.WithLabelValues(collaborator, provider).Observe(latencySeconds)
	if err != nil {
		m.CollaboratorErrors.WithLabelValues(collaborator, provider).Inc()
	}
}

// RecordAudioReceived records audio bytes captured or uploaded.
func (m *Metrics) RecordAudioReceived(bytes int64) {
	m.AudioBytesReceived.Add(float64(bytes))
}

// RecordInputRejected records a rejected input.
func (m *Metrics) RecordInputRejected(reason string) {
	m.InputsRejected.WithLabelValues(reason).Inc()
}

// RecordGRPCRequest records a completed unary gRPC call.
func (m *Metrics) RecordGRPCRequest(method, code string, durationSeconds float64) {
	m.GRPCRequests.WithLabelValues(method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
