// Package catalog builds Apache Arrow record batches from wire mappings at
// the writer boundary. It materializes the registered columnar layouts and
// hands sealed records to an external BatchWriter; the actual file mechanics
// stay outside this module.
package catalog

import (
	"context"
	"errors"
	"path"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/ettle/strcase"
)

// ErrClosed is returned when appending to a closed appender.
var ErrClosed = errors.New("catalog: appender is closed")

// BatchWriter persists sealed record batches. The record is released once
// WriteRecord returns; implementations that keep it longer must Retain it.
type BatchWriter interface {
	WriteRecord(ctx context.Context, dataset string, rec arrow.Record) error
}

// DatasetPath returns the dataset directory for a wire type tag, e.g.
// "data/ticker_snapshot" for TickerSnapshot.
func DatasetPath(tag string) string {
	return path.Join("data", strcase.ToSnake(tag))
}
