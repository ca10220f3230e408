package serialization

import "go.uber.org/fx"

// NewSerializationModule provides a process-wide *Registry.
// Domain packages contribute their registrations via fx.Invoke hooks.
func NewSerializationModule() fx.Option {
	return fx.Module("serialization",
		fx.Provide(NewRegistry),
	)
}
