package kafka

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type messageTracer struct {
	tracer trace.Tracer
}

func newMessageTracer(tp trace.TracerProvider) *messageTracer {
	return &messageTracer{tracer: tp.Tracer("marketdata.transport.kafka")}
}

// extractContext pulls the propagated trace context out of message headers.
func (t *messageTracer) extractContext(ctx context.Context, message *kafka.Message) context.Context {
	if len(message.Headers) == 0 {
		return ctx
	}

	carrier := propagation.MapCarrier{}
	for _, header := range message.Headers {
		carrier[header.Key] = string(header.Value)
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// injectContext adds the current trace context to message headers, keeping
// headers that are already set.
func (t *messageTracer) injectContext(ctx context.Context, message *kafka.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	for key, value := range carrier {
		message.Headers = append(message.Headers, kafka.Header{
			Key:   key,
			Value: []byte(value),
		})
	}
}

func (t *messageTracer) startConsumeSpan(ctx context.Context, message *kafka.Message, tag string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topicOf(message)),
			attribute.Int("messaging.partition", int(message.TopicPartition.Partition)),
			attribute.Int64("messaging.offset", int64(message.TopicPartition.Offset)),
			attribute.String("marketdata.type", tag),
		),
	)
}

func (t *messageTracer) startPublishSpan(ctx context.Context, topic, tag string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "kafka.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("marketdata.type", tag),
		),
	)
}

func topicOf(message *kafka.Message) string {
	if message.TopicPartition.Topic == nil {
		return ""
	}
	return *message.TopicPartition.Topic
}
