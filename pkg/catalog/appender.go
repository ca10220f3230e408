package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Appender buffers wire mappings per type and flushes sealed record batches
// to the writer once a type reaches the configured row count. Flush and
// Close drain every buffered type; a failed write drops its batch, the
// writer is expected to do its own retrying. Safe for concurrent use.
type Appender struct {
	registry *serialization.Registry
	writer   BatchWriter
	conf     Config
	mem      memory.Allocator
	metrics  *catalogMetrics
	log      *zap.Logger

	mu       sync.Mutex
	builders map[string]*Builder
	closed   bool
}

// NewAppender creates an appender over the registry's columnar layouts.
func NewAppender(registry *serialization.Registry, writer BatchWriter, conf Config, mp metric.MeterProvider, log *zap.Logger) (*Appender, error) {
	if writer == nil {
		return nil, fmt.Errorf("catalog: batch writer is required")
	}
	applyDefaults(&conf)

	metrics, err := newCatalogMetrics(mp)
	if err != nil {
		return nil, err
	}

	return &Appender{
		registry: registry,
		writer:   writer,
		conf:     conf,
		mem:      memory.DefaultAllocator,
		metrics:  metrics,
		log:      log,
		builders: make(map[string]*Builder),
	}, nil
}

// Append encodes the value through the registry and buffers the resulting
// row.
func (a *Appender) Append(ctx context.Context, v serialization.Serializable) error {
	m, err := a.registry.Encode(v)
	if err != nil {
		return err
	}
	return a.AppendMapping(ctx, m)
}

// AppendMapping buffers an already encoded row under its own type tag. The
// tag must be registered so the columnar layout can be resolved.
func (a *Appender) AppendMapping(ctx context.Context, m serialization.Mapping) error {
	tag, err := m.Type()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	b, ok := a.builders[tag]
	if !ok {
		desc, err := a.registry.Schema(tag)
		if err != nil {
			return err
		}
		b = NewBuilder(a.mem, desc)
		a.builders[tag] = b
	}

	if err := b.Append(m); err != nil {
		return err
	}
	if b.Len() >= a.conf.FlushRows {
		return a.writeBatch(ctx, sealBatch(tag, b))
	}
	return nil
}

// Flush drains every buffered type, writing the batches concurrently.
func (a *Appender) Flush(ctx context.Context) error {
	batches := a.drain()
	if len(batches) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range batches {
		g.Go(func() error {
			return a.writeBatch(gctx, p)
		})
	}
	return g.Wait()
}

// Close flushes every buffered type and releases the builders. Appending
// after Close fails with ErrClosed.
func (a *Appender) Close(ctx context.Context) error {
	err := a.Flush(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return err
	}
	a.closed = true
	for _, b := range a.builders {
		b.Release()
	}
	a.builders = nil
	return err
}

type batch struct {
	dataset string
	tag     string
	rows    int
	rec     arrow.Record
}

func sealBatch(tag string, b *Builder) batch {
	rows := b.Len()
	return batch{dataset: DatasetPath(tag), tag: tag, rows: rows, rec: b.NewRecord()}
}

func (a *Appender) drain() []batch {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []batch
	for tag, b := range a.builders {
		if b.Len() == 0 {
			continue
		}
		out = append(out, sealBatch(tag, b))
	}
	return out
}

func (a *Appender) writeBatch(ctx context.Context, p batch) error {
	defer p.rec.Release()

	if err := a.writer.WriteRecord(ctx, p.dataset, p.rec); err != nil {
		return fmt.Errorf("catalog flush %q: %w", p.dataset, err)
	}
	a.metrics.addFlush(ctx, p.tag, int64(p.rows))
	a.log.Debug("flushed batch", zap.String("dataset", p.dataset), zap.Int("rows", p.rows))
	return nil
}
