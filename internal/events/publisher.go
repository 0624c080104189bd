// Package events publishes transcript and analysis events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"speech-analyzer-service/internal/observability/metrics"
)

// Publisher publishes run events to separate Kafka topics. When Kafka is
// disabled it only logs the payloads.
type Publisher struct {
	writerTranscript *kafka.Writer
	writerAnalysis   *kafka.Writer
	principal        string
	topicTranscript  string
	topicAnalysis    string
	enabled          bool
	metrics          *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers         []string
	TopicTranscript string
	TopicAnalysis   string
	Principal       string
	Enabled         bool
	Metrics         *metrics.Metrics
}

// New creates a new Kafka event publisher.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if cfg.Metrics != nil {
		m = cfg.Metrics
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:       cfg.Principal,
			topicTranscript: cfg.TopicTranscript,
			topicAnalysis:   cfg.TopicAnalysis,
			enabled:         false,
			metrics:         m,
		}
	}

	// Longer dial timeout for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTranscript", cfg.TopicTranscript).
		Str("topicAnalysis", cfg.TopicAnalysis).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTranscript: newWriter(cfg.TopicTranscript),
		writerAnalysis:   newWriter(cfg.TopicAnalysis),
		principal:        cfg.Principal,
		topicTranscript:  cfg.TopicTranscript,
		topicAnalysis:    cfg.TopicAnalysis,
		enabled:          true,
		metrics:          m,
	}
}

// Enabled reports whether events are written to Kafka.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// PublishTranscript publishes a final transcript event to the transcript topic.
func (p *Publisher) PublishTranscript(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerTranscript, p.topicTranscript, "transcript", key, event)
}

// PublishAnalysis publishes a completed analysis event to the analysis topic.
func (p *Publisher) PublishAnalysis(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerAnalysis, p.topicAnalysis, "analysis", key, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTranscript != nil {
		if e := p.writerTranscript.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing transcript writer")
			err = e
		}
	}
	if p.writerAnalysis != nil {
		if e := p.writerAnalysis.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing analysis writer")
			err = e
		}
	}
	return err
}
