package health

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewHealthModule provides a process-wide readiness tracker exposed through
// its three role interfaces.
func NewHealthModule() fx.Option {
	return fx.Module("health",
		fx.Provide(
			NewReadiness,
			func(r *Readiness) ComponentManager { return r },
			func(r *Readiness) Checker { return r },
			func(r *Readiness) Waiter { return r },
		),
		fx.Invoke(func(logger *zap.Logger) {
			logger.Info("health module initialized")
		}),
	)
}
