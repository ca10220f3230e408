package marketdata

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization/columnar"
)

// RegisterAll binds every market-data wire type into the registry. It is
// idempotent and meant to run once during process start-up, before any
// concurrent lookup begins.
func RegisterAll(reg *serialization.Registry) error {
	bindings := []struct {
		codec  serialization.Codec
		schema *columnar.Descriptor
	}{
		{tickerSnapshotCodec{}, tickerSnapshotSchema},
		{indicativeBookDeltaCodec{}, indicativeBookDeltaSchema},
		{tradeTickCodec{}, tradeTickSchema},
		{instrumentSearchResultCodec{}, instrumentSearchResultSchema},
	}
	for _, b := range bindings {
		if err := reg.Register(b.codec, b.schema); err != nil {
			return fmt.Errorf("register market data types: %w", err)
		}
	}
	return nil
}

// NewMarketDataModule registers all market-data wire types during fx
// start-up. Requires the serialization module for the registry.
func NewMarketDataModule() fx.Option {
	return fx.Module("marketdata",
		fx.Invoke(RegisterAll),
	)
}
