package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/flux-site-etl/internal/config"
	"github.com/couchcryptid/flux-site-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes site records to a Kafka topic, one message per site.
// It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured site topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSiteTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink.
func (w *Writer) Name() string { return "kafka" }

// Load publishes every site in the registry in a single WriteMessages call.
// Sites are keyed by name so a site's records stay on one partition.
func (w *Writer) Load(ctx context.Context, reg *domain.Registry) error {
	view := reg.View(false)
	if len(view.Sites) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(view.Sites))
	for i, site := range view.Sites {
		msg, err := serializeToMessage(site, reg)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish sites: %w", err)
	}
	w.logger.Info("sites published", "count", len(msgs), "source", reg.Source())
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// siteMessage is the published record.
type siteMessage struct {
	domain.Site
	Source      string `json:"source"`
	Operational bool   `json:"operational"`
}

// serializeToMessage marshals a site into a Kafka message.
func serializeToMessage(site domain.Site, reg *domain.Registry) (kafkago.Message, error) {
	operational := reg.Rule().IsOperational(site)
	data, err := json.Marshal(siteMessage{Site: site, Source: reg.Source(), Operational: operational})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize site %q: %w", site.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(site.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(reg.Source())},
			{Key: "operational", Value: []byte(strconv.FormatBool(operational))},
			{Key: "reference_time", Value: []byte(reg.ReferenceTime().Format(time.RFC3339))},
		},
	}, nil
}
