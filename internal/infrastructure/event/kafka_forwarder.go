package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// recordProducer is the part of *kgo.Client the forwarder uses
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaForwarder produces every domain event to one topic, keyed by
// aggregate id so events of an aggregate stay ordered within a partition.
type KafkaForwarder struct {
	client     recordProducer
	serializer *EventSerializer
	topic      string
	logger     *zap.Logger
}

// NewKafkaForwarder connects to brokers and verifies they are reachable
func NewKafkaForwarder(ctx context.Context, brokers []string, topic string, serializer *EventSerializer, logger *zap.Logger) (*KafkaForwarder, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cl.Ping(pingCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return newKafkaForwarder(cl, topic, serializer, logger), nil
}

func newKafkaForwarder(client recordProducer, topic string, serializer *EventSerializer, logger *zap.Logger) *KafkaForwarder {
	return &KafkaForwarder{
		client:     client,
		serializer: serializer,
		topic:      topic,
		logger:     logger.Named("kafka"),
	}
}

func (f *KafkaForwarder) Name() string { return "kafka" }

// EventTypes is empty: every event is forwarded
func (f *KafkaForwarder) EventTypes() []string { return nil }

// Handle produces ev and waits for the broker acknowledgement
func (f *KafkaForwarder) Handle(ctx context.Context, ev shared.DomainEvent) error {
	payload, err := f.serializer.Serialize(ev)
	if err != nil {
		return err
	}
	rec := buildRecord(ctx, f.topic, ev, payload)
	if err := f.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", ev.EventType(), err)
	}
	f.logger.Debug("event forwarded",
		zap.String("event_id", ev.EventID().String()),
		zap.String("topic", f.topic),
		zap.Int32("partition", rec.Partition),
		zap.Int64("offset", rec.Offset),
	)
	return nil
}

// Close flushes and closes the client
func (f *KafkaForwarder) Close() {
	f.client.Close()
}

func buildRecord(ctx context.Context, topic string, ev shared.DomainEvent, payload []byte) *kgo.Record {
	headers := map[string]string{
		"event_id":       ev.EventID().String(),
		"event_type":     ev.EventType(),
		"aggregate_type": ev.AggregateType(),
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	rec := &kgo.Record{
		Topic:     topic,
		Key:       []byte(ev.AggregateID().String()),
		Value:     payload,
		Timestamp: ev.OccurredAt(),
		Headers:   make([]kgo.RecordHeader, 0, len(headers)),
	}
	for k, v := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return rec
}
