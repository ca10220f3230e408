package worker

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type groupParams struct {
	fx.In
	Workers []*Worker `group:"workers"`
}

// NewWorkerModule activates every worker registered through Register. fx
// providers are lazy; this invoke forces the whole group to be built and
// its lifecycle hooks appended.
func NewWorkerModule() fx.Option {
	return fx.Module("worker",
		fx.Invoke(func(p groupParams, log *zap.Logger) {
			for _, w := range p.Workers {
				log.Info("worker registered", zap.String("worker", w.Name()))
			}
		}),
	)
}
