package cache

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Instrument wraps a Store so every Get counts a hit or a miss, attributed
// to the backend name. Writes and deletes pass through uncounted.
func Instrument(s Store, backend string, mp metric.MeterProvider) (Store, error) {
	meter := mp.Meter("marketdata.cache")

	hits, err := meter.Int64Counter("marketdata.cache.hits",
		metric.WithDescription("Reads that found a stored mapping"))
	if err != nil {
		return nil, fmt.Errorf("failed to create hits counter: %w", err)
	}
	misses, err := meter.Int64Counter("marketdata.cache.misses",
		metric.WithDescription("Reads of keys with no stored mapping"))
	if err != nil {
		return nil, fmt.Errorf("failed to create misses counter: %w", err)
	}

	return &instrumentedStore{
		next:    s,
		backend: attribute.String("backend", backend),
		hits:    hits,
		misses:  misses,
	}, nil
}

type instrumentedStore struct {
	next    Store
	backend attribute.KeyValue
	hits    metric.Int64Counter
	misses  metric.Int64Counter
}

func (s *instrumentedStore) Put(ctx context.Context, key string, m serialization.Mapping) error {
	return s.next.Put(ctx, key, m)
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (serialization.Mapping, error) {
	m, err := s.next.Get(ctx, key)
	switch {
	case err == nil:
		s.hits.Add(ctx, 1, metric.WithAttributes(s.backend))
	case errors.Is(err, ErrNotFound):
		s.misses.Add(ctx, 1, metric.WithAttributes(s.backend))
	}
	return m, err
}

func (s *instrumentedStore) Keys(ctx context.Context, tag string) ([]string, error) {
	return s.next.Keys(ctx, tag)
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

func (s *instrumentedStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
