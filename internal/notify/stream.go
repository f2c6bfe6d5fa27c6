package notify

import (
	"context"

	segkafka "github.com/segmentio/kafka-go"

	"github.com/RishithaRamesh/wolfcafeplus/pkg/contracts"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/kafka"
)

// Stream publishes lifecycle events to kafka for downstream consumers
// (dashboards, analytics). Nil when no brokers are configured.
type Stream struct {
	writer *segkafka.Writer
}

func NewStream(client *kafka.Client, topic string) *Stream {
	if client == nil || !client.Enabled() {
		return nil
	}
	return &Stream{writer: client.NewWriter(topic)}
}

func (s *Stream) Publish(ctx context.Context, key string, event contracts.Event) error {
	return kafka.PublishJSON(ctx, s.writer, key, event)
}

func (s *Stream) Close() error {
	return s.writer.Close()
}
