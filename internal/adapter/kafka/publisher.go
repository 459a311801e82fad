// Package kafka publishes assembled features to a broker topic so
// downstream consumers (databases, caches, notification fanouts) receive
// observations as they are converted.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/obskit/bufr2geojson/internal/config"
	"github.com/obskit/bufr2geojson/internal/geojson"
)

// Publisher produces one message per feature to a Kafka topic.
// It implements pipeline.FeatureSink.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured feature topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// WriteFeatures serializes and publishes one message's features in a single
// WriteMessages call. Keys carry the feature identifier, so a reconverted
// input compacts onto the same key instead of duplicating observations.
func (p *Publisher) WriteFeatures(ctx context.Context, features []geojson.Feature) error {
	if len(features) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(features))
	for i := range features {
		msg, err := serializeToMessage(&features[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a feature into a Kafka message.
func serializeToMessage(f *geojson.Feature) (kafkago.Message, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature %s: %w", f.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(f.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "wigos_station_identifier", Value: []byte(f.Properties.WIGOSStationIdentifier)},
			{Key: "name", Value: []byte(f.Properties.Name)},
		},
	}, nil
}
