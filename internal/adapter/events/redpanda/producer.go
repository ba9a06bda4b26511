// Package redpanda publishes catalog change events to a Redpanda/Kafka
// topic. The feed is optional: when no brokers are configured the service
// runs without it, and publish failures only log, they never fail the
// request that caused them.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/course-catalog/internal/domain"
)

// Producer implements domain.EventPublisher on a Kafka topic.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer connects to the brokers and publishes change events to topic.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=redpanda.NewProducer: no seed brokers provided")
	}
	if topic == "" {
		return nil, fmt.Errorf("op=redpanda.NewProducer: no topic provided")
	}

	// OpenTelemetry hooks so produced records carry the current trace.
	kotelTracer := kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
	)
	kotelService := kotel.NewKotel(
		kotel.WithTracer(kotelTracer),
	)

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.DialTimeout(10 * time.Second),
		kgo.RequestRetries(10),
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.NewProducer: %w", err)
	}

	slog.Info("change feed producer created",
		slog.Any("brokers", brokers),
		slog.String("topic", topic))
	return &Producer{client: client, topic: topic}, nil
}

// newRecord builds the Kafka record for a change event. Records are keyed by
// course code so per-course ordering holds.
func newRecord(ev domain.ChangeEvent) (*kgo.Record, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.newRecord: %w", err)
	}
	return &kgo.Record{
		Key:   []byte(ev.Code),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "event", Value: []byte(ev.Event)},
		},
	}, nil
}

// Publish emits a change event. Delivery is asynchronous; failures surface
// only in the delivery callback's log line.
func (p *Producer) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	record, err := newRecord(ev)
	if err != nil {
		return err
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			slog.Error("change event publish failed",
				slog.String("event", ev.Event),
				slog.String("course.code", ev.Code),
				slog.Any("error", err))
		}
	})
	return nil
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close() error {
	if p.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.client.Close()
		return fmt.Errorf("op=redpanda.Close: %w", err)
	}
	p.client.Close()
	return nil
}
