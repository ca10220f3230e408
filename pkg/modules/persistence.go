package modules

import (
	"go.uber.org/fx"

	"github.com/halcyonmkt/marketdata-commons/pkg/cache/mongo"
	"github.com/halcyonmkt/marketdata-commons/pkg/catalog"
)

// NewPersistenceModule provides the storage boundary: the mongo-backed
// snapshot store and the catalog batch appender. The host contributes the
// catalog.BatchWriter that owns the actual file mechanics; hosts that want
// the redis snapshot store pull in cache/redis.NewRedisModule instead of
// this aggregate.
func NewPersistenceModule() fx.Option {
	return fx.Options(
		mongo.NewMongoModule(),
		catalog.NewCatalogModule(),
	)
}
