// Package modules bundles the library's fx modules into the groups a host
// process typically pulls in together.
package modules

import (
	"go.uber.org/fx"

	"github.com/halcyonmkt/marketdata-commons/pkg/config"
	"github.com/halcyonmkt/marketdata-commons/pkg/health"
	"github.com/halcyonmkt/marketdata-commons/pkg/logging"
	"github.com/halcyonmkt/marketdata-commons/pkg/worker"
)

// NewCoreModule provides the ambient process plumbing: environment and file
// configuration, the zap logger, the readiness tracker and worker
// supervision.
func NewCoreModule() fx.Option {
	return fx.Options(
		config.NewDotEnvModule(),
		config.NewAppConfigModule(),
		config.NewViperModule(),
		logging.NewLoggingModule(),
		health.NewHealthModule(),
		worker.NewWorkerModule(),
	)
}
