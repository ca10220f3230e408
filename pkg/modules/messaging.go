package modules

import (
	"go.uber.org/fx"

	"github.com/halcyonmkt/marketdata-commons/pkg/transport"
	"github.com/halcyonmkt/marketdata-commons/pkg/transport/kafka"
)

// NewMessagingModule provides the bus boundary: the envelope codec, the
// kafka publisher and the supervised kafka consumer. The host contributes
// the kafka.Handler the consumer dispatches to.
func NewMessagingModule() fx.Option {
	return fx.Options(
		transport.NewTransportModule(),
		kafka.NewKafkaConfigModule(),
		kafka.NewKafkaPublisherModule(),
		kafka.NewKafkaConsumerModule(),
	)
}
