package kafka

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Drop reasons attached to the dropped counter.
const (
	dropReasonDeserialize = "deserialize"
	dropReasonDecode      = "decode"
	dropReasonHandler     = "handler"
)

type busMetrics struct {
	published metric.Int64Counter
	consumed  metric.Int64Counter
	dropped   metric.Int64Counter
}

func newBusMetrics(mp metric.MeterProvider) (*busMetrics, error) {
	meter := mp.Meter("marketdata.transport.kafka")

	published, err := meter.Int64Counter("marketdata.bus.published",
		metric.WithDescription("Messages published to the bus"))
	if err != nil {
		return nil, fmt.Errorf("failed to create published counter: %w", err)
	}
	consumed, err := meter.Int64Counter("marketdata.bus.consumed",
		metric.WithDescription("Messages consumed and handled successfully"))
	if err != nil {
		return nil, fmt.Errorf("failed to create consumed counter: %w", err)
	}
	dropped, err := meter.Int64Counter("marketdata.bus.dropped",
		metric.WithDescription("Messages dropped after deserialize, decode or handler failure"))
	if err != nil {
		return nil, fmt.Errorf("failed to create dropped counter: %w", err)
	}

	return &busMetrics{published: published, consumed: consumed, dropped: dropped}, nil
}

func (m *busMetrics) addPublished(ctx context.Context, tag string) {
	m.published.Add(ctx, 1, metric.WithAttributes(attribute.String("type", tag)))
}

func (m *busMetrics) addConsumed(ctx context.Context, tag string) {
	m.consumed.Add(ctx, 1, metric.WithAttributes(attribute.String("type", tag)))
}

func (m *busMetrics) addDropped(ctx context.Context, tag, reason string) {
	m.dropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", tag),
		attribute.String("reason", reason),
	))
}
