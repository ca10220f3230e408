package catalog

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type catalogMetrics struct {
	rows    metric.Int64Counter
	batches metric.Int64Counter
}

func newCatalogMetrics(mp metric.MeterProvider) (*catalogMetrics, error) {
	meter := mp.Meter("marketdata.catalog")

	rows, err := meter.Int64Counter("marketdata.catalog.rows",
		metric.WithDescription("Rows flushed to the batch writer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}
	batches, err := meter.Int64Counter("marketdata.catalog.batches",
		metric.WithDescription("Record batches flushed to the batch writer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create batches counter: %w", err)
	}

	return &catalogMetrics{rows: rows, batches: batches}, nil
}

func (m *catalogMetrics) addFlush(ctx context.Context, tag string, rows int64) {
	attrs := metric.WithAttributes(attribute.String("type", tag))
	m.rows.Add(ctx, rows, attrs)
	m.batches.Add(ctx, 1, attrs)
}
