package modules

import (
	"go.uber.org/fx"

	"github.com/halcyonmkt/marketdata-commons/pkg/observability"
)

// NewObservabilityModule provides tracing and metrics providers.
func NewObservabilityModule() fx.Option {
	return fx.Options(
		observability.NewObservabilityModule(),
	)
}
