package viewer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// NewReader creates a partition-0 reader starting lookback before now.
func NewReader(ctx context.Context, brokers []string, topic string, lookback time.Duration) *kafka.Reader {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	if lookback > 0 {
		if err := reader.SetOffsetAt(ctx, time.Now().Add(-lookback)); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Failed to seek, reading from the start")
		}
	}
	return reader
}

// Consume reads events from r and publishes them to the hub until ctx ends.
// Read errors are retried after retryDelay; undecodable messages are skipped.
func Consume(ctx context.Context, hub *Hub, r MessageReader, topic string, retryDelay time.Duration) {
	logger := log.With().Str("topic", topic).Logger()
	logger.Info().Msg("Consuming analysis events")

	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn().Err(err).Msg("Kafka read failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}

		ev, err := Decode(msg.Value)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping undecodable event")
			continue
		}

		logger.Debug().
			Str("eventType", ev.EventType).
			Str("interactionId", ev.InteractionID).
			Str("runId", ev.RunID).
			Msg("Received event")
		hub.Publish(ev)
	}
}
