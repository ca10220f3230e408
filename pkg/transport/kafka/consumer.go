package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/logging"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/transport"
)

// Handler processes decoded domain values.
type Handler interface {
	Handle(ctx context.Context, v serialization.Serializable) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, v serialization.Serializable) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, v serialization.Serializable) error {
	return f(ctx, v)
}

// consumerClient is the subset of *kafka.Consumer the consumer loop uses.
type consumerClient interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	StoreMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	Commit() ([]kafka.TopicPartition, error)
	Close() error
}

// Consumer reads enveloped wire mappings from a topic, decodes them through
// the registry and hands domain values to a Handler.
//
// Failure policy: deserialize and decode failures are dropped with a
// throttled warning and never retried. Handler failures are retried with
// exponential backoff up to the configured attempt limit, then dropped.
type Consumer struct {
	consumer     consumerClient
	registry     *serialization.Registry
	deserializer transport.Deserializer
	handler      Handler
	conf         ConsumerConfig
	throttler    *logging.Throttler
	metrics      *busMetrics
	tracer       *messageTracer
	log          *zap.Logger
}

// NewConsumer builds a consumer loop on top of an existing consumer client.
func NewConsumer(
	consumer consumerClient,
	registry *serialization.Registry,
	deserializer transport.Deserializer,
	handler Handler,
	conf ConsumerConfig,
	throttler *logging.Throttler,
	mp metric.MeterProvider,
	tp trace.TracerProvider,
	log *zap.Logger,
) (*Consumer, error) {
	if conf.Topic == "" {
		return nil, fmt.Errorf("consumer topic is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer handler is required")
	}

	metrics, err := newBusMetrics(mp)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		consumer:     consumer,
		registry:     registry,
		deserializer: deserializer,
		handler:      handler,
		conf:         conf,
		throttler:    throttler,
		metrics:      metrics,
		tracer:       newMessageTracer(tp),
		log:          log.With(zap.String("topic", conf.Topic)),
	}, nil
}

// Run polls the topic until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("consumer loop started")

	for {
		if ctx.Err() != nil {
			c.log.Info("consumer loop stopped")
			return ctx.Err()
		}

		msg, err := c.consumer.ReadMessage(c.conf.PollTimeout)
		if err != nil {
			c.handleReadError(ctx, err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// handleReadError triages poll errors: timeouts are normal, broker and
// topic hiccups back off and retry, everything else is logged and retried
// on the next poll.
func (c *Consumer) handleReadError(ctx context.Context, err error) {
	var kafkaErr kafka.Error
	if errors.As(err, &kafkaErr) {
		switch {
		case kafkaErr.IsTimeout():
			return
		case kafkaErr.Code() == kafka.ErrUnknownTopicOrPart:
			c.log.Warn("topic not available, waiting", zap.Error(err))
			sleep(ctx, 10*time.Second)
			return
		case kafkaErr.Code() == kafka.ErrTransport,
			kafkaErr.Code() == kafka.ErrAllBrokersDown,
			kafkaErr.Code() == kafka.ErrNetworkException:
			c.log.Warn("broker connection issue, retrying", zap.Error(err))
			sleep(ctx, 5*time.Second)
			return
		case kafkaErr.Code() == kafka.ErrLeaderNotAvailable,
			kafkaErr.Code() == kafka.ErrNotLeaderForPartition:
			c.log.Debug("partition leader changing, retrying")
			sleep(ctx, 2*time.Second)
			return
		}
	}
	c.log.Error("failed to read message", zap.Error(err))
}

func (c *Consumer) processMessage(ctx context.Context, msg *kafka.Message) {
	ctx = c.tracer.extractContext(ctx, msg)
	ctx, span := c.tracer.startConsumeSpan(ctx, msg, headerValue(msg, HeaderType))
	defer span.End()

	env, err := c.deserializer.Deserialize(msg.Value)
	if err != nil {
		c.drop(ctx, span, msg, headerValue(msg, HeaderType), dropReasonDeserialize, err)
		return
	}

	v, err := c.registry.DecodeAny(env.Payload)
	if err != nil {
		c.drop(ctx, span, msg, env.Type, dropReasonDecode, err)
		return
	}

	if err := c.handleWithRetry(ctx, v); err != nil {
		// Cancellation means shutdown mid-message: leave the offset
		// unstored so the message is redelivered.
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "cancelled during processing")
			return
		}
		c.drop(ctx, span, msg, env.Type, dropReasonHandler, err)
		return
	}

	span.SetStatus(codes.Ok, "message processed")
	c.metrics.addConsumed(ctx, env.Type)
	c.storeOffset(msg)
}

// drop is the single exit for poisoned messages: count, warn through the
// throttler, mark the span and advance the offset past the message.
func (c *Consumer) drop(ctx context.Context, span trace.Span, msg *kafka.Message, tag, reason string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "message dropped: "+reason)

	c.metrics.addDropped(ctx, tag, reason)
	c.throttler.Warn(reason+":"+tag, "dropping message",
		zap.String("type", tag),
		zap.String("reason", reason),
		zap.Int64("offset", int64(msg.TopicPartition.Offset)),
		zap.Error(err),
	)

	c.storeOffset(msg)
}

func (c *Consumer) handleWithRetry(ctx context.Context, v serialization.Serializable) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.conf.InitialBackoff
	bo.MaxInterval = c.conf.MaxBackoff
	bo.MaxElapsedTime = 0

	return backoff.Retry(
		func() error { return c.handleRecovering(ctx, v) },
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.conf.MaxRetryAttempts)), ctx),
	)
}

// handleRecovering shields the loop from handler panics. A panic is a bug,
// not a transient condition, so it is permanent and skips the retries.
func (c *Consumer) handleRecovering(ctx context.Context, v serialization.Serializable) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = backoff.Permanent(fmt.Errorf("handler panic: %v", rec))
		}
	}()
	return c.handler.Handle(ctx, v)
}

func (c *Consumer) storeOffset(msg *kafka.Message) {
	if _, err := c.consumer.StoreMessage(msg); err != nil {
		c.log.Warn("failed to store offset",
			zap.Int64("offset", int64(msg.TopicPartition.Offset)),
			zap.Error(err))
	}
}

func headerValue(msg *kafka.Message, key string) string {
	for _, header := range msg.Headers {
		if header.Key == key {
			return string(header.Value)
		}
	}
	return ""
}

// sleep pauses for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
