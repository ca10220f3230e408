// Package inspect implements the mdctl inspection commands: listing the
// registered columnar schemas, decoding captured wire-mapping documents
// through the registry, and verifying their decode/re-encode fidelity.
//
// The inspector operates on the standard market-data registry; payload
// inputs are JSON documents in the canonical wire-mapping form, either a
// single document or a stream of concatenated documents (one per line or
// back to back).
package inspect

import (
	"fmt"

	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Inspector runs inspection commands against a populated registry.
type Inspector struct {
	registry *serialization.Registry
}

// New builds an inspector over a fresh registry holding every market-data
// wire type.
func New() (*Inspector, error) {
	registry := serialization.NewRegistry()
	if err := marketdata.RegisterAll(registry); err != nil {
		return nil, fmt.Errorf("failed to populate registry: %w", err)
	}
	return &Inspector{registry: registry}, nil
}

// NewWithRegistry builds an inspector over an existing registry.
func NewWithRegistry(registry *serialization.Registry) *Inspector {
	return &Inspector{registry: registry}
}

// Tags returns the registered wire type tags in lexical order.
func (i *Inspector) Tags() []string {
	return i.registry.Tags()
}
