// Package kafka adapts the serialization registry to a kafka bus: the
// publisher encodes domain values into enveloped wire mappings, the consumer
// decodes incoming messages back through the registry and never lets one
// malformed payload stop the stream.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/transport"
)

// Message header keys.
const (
	HeaderMessageID   = "message-id"
	HeaderType        = "type"
	HeaderContentType = "content-type"
)

// producerClient is the subset of *kafka.Producer the publisher uses.
type producerClient interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// Publisher encodes domain values through the registry and produces them to
// a fixed topic.
type Publisher struct {
	producer   producerClient
	registry   *serialization.Registry
	serializer transport.Serializer
	conf       ProducerConfig
	limiter    *rate.Limiter
	metrics    *busMetrics
	tracer     *messageTracer
	log        *zap.Logger
}

// NewPublisher builds a publisher on top of an existing producer client.
func NewPublisher(
	producer producerClient,
	registry *serialization.Registry,
	serializer transport.Serializer,
	conf ProducerConfig,
	mp metric.MeterProvider,
	tp trace.TracerProvider,
	log *zap.Logger,
) (*Publisher, error) {
	if conf.Topic == "" {
		return nil, fmt.Errorf("producer topic is required")
	}

	metrics, err := newBusMetrics(mp)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if conf.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(conf.RateLimit), conf.RateBurst)
	}

	return &Publisher{
		producer:   producer,
		registry:   registry,
		serializer: serializer,
		conf:       conf,
		limiter:    limiter,
		metrics:    metrics,
		tracer:     newMessageTracer(tp),
		log:        log.With(zap.String("topic", conf.Topic)),
	}, nil
}

// Publish encodes v, wraps it in an envelope and produces it, waiting for
// the broker acknowledgement.
func (p *Publisher) Publish(ctx context.Context, v serialization.Serializable) error {
	m, err := p.registry.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", v.WireType(), err)
	}

	env, err := transport.NewEnvelope(m)
	if err != nil {
		return err
	}

	data, err := p.serializer.Serialize(env)
	if err != nil {
		return err
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("publish rate limiter: %w", err)
		}
	}

	ctx, span := p.tracer.startPublishSpan(ctx, p.conf.Topic, env.Type)
	defer span.End()

	topic := p.conf.Topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            partitionKey(env),
		Value:          data,
		Headers: []kafka.Header{
			{Key: HeaderMessageID, Value: []byte(env.MessageID.String())},
			{Key: HeaderType, Value: []byte(env.Type)},
			{Key: HeaderContentType, Value: []byte(p.serializer.ContentType())},
		},
	}
	p.tracer.injectContext(ctx, msg)

	if err := p.deliver(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return err
	}

	span.SetStatus(codes.Ok, "published")
	p.metrics.addPublished(ctx, env.Type)
	return nil
}

func (p *Publisher) deliver(ctx context.Context, msg *kafka.Message) error {
	deliveryChan := make(chan kafka.Event, 1)
	if err := p.producer.Produce(msg, deliveryChan); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	timer := time.NewTimer(p.conf.DeliveryTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("delivery confirmation timed out after %s", p.conf.DeliveryTimeout)
	case ev := <-deliveryChan:
		delivered, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", ev)
		}
		if delivered.TopicPartition.Error != nil {
			return fmt.Errorf("failed to deliver message: %w", delivered.TopicPartition.Error)
		}
		return nil
	}
}

// Close flushes outstanding messages and releases the producer.
func (p *Publisher) Close() {
	remaining := p.producer.Flush(int(p.conf.FlushTimeout / time.Millisecond))
	if remaining > 0 {
		p.log.Warn("closing producer with undelivered messages", zap.Int("remaining", remaining))
	}
	p.producer.Close()
}

// partitionKey keys messages by instrument so one instrument's stream stays
// ordered within a partition. Envelopes without an instrument fall back to
// the message ID.
func partitionKey(env transport.Envelope) []byte {
	if id, err := env.Payload.String(marketdata.FieldInstrumentID); err == nil && id != "" {
		return []byte(id)
	}
	return []byte(env.MessageID.String())
}
