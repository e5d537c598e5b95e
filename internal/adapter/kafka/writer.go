package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/station-catalog-etl/internal/config"
	"github.com/couchcryptid/station-catalog-etl/internal/domain"
)

// Writer publishes the location table to a Kafka topic, one message per
// station keyed by site number. It implements pipeline.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured catalog topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaCatalogTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Write serializes every location row and publishes them in a single
// WriteMessages call.
func (w *Writer) Write(ctx context.Context, tables domain.Tables) error {
	if len(tables.Locations) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(tables.Locations))
	for i := range tables.Locations {
		msg, err := serializeToMessage(tables.Locations[i], tables.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish catalog: %w", err)
	}
	w.logger.Info("catalog published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a location row into a Kafka message.
func serializeToMessage(row domain.LocationRow, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize station %s: %w", row.Site, err)
	}
	return kafkago.Message{
		Key:   []byte(row.Site),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "state", Value: []byte(row.State)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
