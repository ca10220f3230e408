package modules

import (
	"go.uber.org/fx"

	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// NewSerializationModule provides the wire type registry populated with
// every market-data type.
func NewSerializationModule() fx.Option {
	return fx.Options(
		serialization.NewSerializationModule(),
		marketdata.NewMarketDataModule(),
	)
}
