package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/health"
	"github.com/halcyonmkt/marketdata-commons/pkg/logging"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/transport"
	"github.com/halcyonmkt/marketdata-commons/pkg/worker"
)

// Readiness component names.
const (
	ProducerComponentName = "kafka-producer"
	ConsumerComponentName = "kafka-consumer"
)

type configOptions struct {
	static *Config
}

// ConfigOption configures the kafka config module.
type ConfigOption func(*configOptions)

// WithConfig provides a static Config instead of reading it from viper.
// Useful for tests.
func WithConfig(cfg Config) ConfigOption {
	return func(o *configOptions) { o.static = &cfg }
}

// NewKafkaConfigModule provides the kafka Config shared by the publisher
// and consumer modules.
func NewKafkaConfigModule(opts ...ConfigOption) fx.Option {
	options := &configOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.static != nil {
		static := *options.static
		applyDefaults(&static)
		return fx.Provide(func() (Config, error) {
			return static, static.Validate()
		})
	}
	return fx.Provide(NewConfig)
}

// NewKafkaPublisherModule provides a *Publisher bound to the configured
// producer topic. The producer is flushed and closed on shutdown.
func NewKafkaPublisherModule() fx.Option {
	return fx.Module("kafka-publisher",
		fx.Provide(providePublisher),
	)
}

func providePublisher(
	lc fx.Lifecycle,
	conf Config,
	registry *serialization.Registry,
	serializer transport.Serializer,
	components health.ComponentManager,
	mp metric.MeterProvider,
	tp trace.TracerProvider,
	log *zap.Logger,
) (*Publisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": conf.Brokers})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	publisher, err := NewPublisher(producer, registry, serializer, conf.Producer, mp, tp, log)
	if err != nil {
		producer.Close()
		return nil, err
	}

	markReady := components.AddComponent(ProducerComponentName)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("kafka publisher started", zap.String("topic", conf.Producer.Topic))
			markReady()
			return nil
		},
		OnStop: func(context.Context) error {
			publisher.Close()
			return nil
		},
	})

	return publisher, nil
}

// NewKafkaConsumerModule provides a *Consumer supervised as a worker: it
// subscribes on start, waits for process readiness, polls until shutdown
// and commits its final offsets on the way out. The Handler comes from the
// application.
func NewKafkaConsumerModule() fx.Option {
	return fx.Module("kafka-consumer",
		fx.Provide(
			provideConsumerClient,
			provideConsumer,
			worker.Register[*Consumer](ConsumerComponentName, worker.WithWaitReady(), worker.WithShutdownOnError()),
		),
	)
}

func provideConsumerClient(
	lc fx.Lifecycle,
	conf Config,
	components health.ComponentManager,
	log *zap.Logger,
) (*kafka.Consumer, error) {
	client, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        conf.Brokers,
		"group.id":                 conf.Consumer.GroupID,
		"enable.auto.commit":       true,
		"enable.auto.offset.store": false,
		"auto.commit.interval.ms":  3000,
		"auto.offset.reset":        conf.Consumer.AutoOffsetReset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	markReady := components.AddComponent(ConsumerComponentName)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("subscribing to topic", zap.String("topic", conf.Consumer.Topic))

			rebalanceCb := func(c *kafka.Consumer, event kafka.Event) error {
				switch ev := event.(type) {
				case kafka.AssignedPartitions:
					logPartitionEvent(log, "partitions assigned", ev.Partitions)
				case kafka.RevokedPartitions:
					logPartitionEvent(log, "partitions revoked", ev.Partitions)
				}
				return nil
			}

			if err := client.SubscribeTopics([]string{conf.Consumer.Topic}, rebalanceCb); err != nil {
				return fmt.Errorf("failed to subscribe to topic %s: %w", conf.Consumer.Topic, err)
			}
			markReady()
			return nil
		},
		OnStop: func(context.Context) error {
			if _, commitErr := client.Commit(); commitErr != nil {
				var kafkaErr kafka.Error
				if !errors.As(commitErr, &kafkaErr) || kafkaErr.Code() != kafka.ErrNoOffset {
					log.Warn("failed to commit offsets on shutdown", zap.Error(commitErr))
				}
			}
			log.Info("closing kafka consumer")
			return client.Close()
		},
	})

	return client, nil
}

func provideConsumer(
	client *kafka.Consumer,
	conf Config,
	registry *serialization.Registry,
	deserializer transport.Deserializer,
	handler Handler,
	throttler *logging.Throttler,
	mp metric.MeterProvider,
	tp trace.TracerProvider,
	log *zap.Logger,
) (*Consumer, error) {
	return NewConsumer(client, registry, deserializer, handler, conf.Consumer, throttler, mp, tp, log)
}

func logPartitionEvent(log *zap.Logger, event string, partitions []kafka.TopicPartition) {
	if len(partitions) == 0 {
		log.Warn(event + ": no partitions")
		return
	}

	partitionIDs := make([]int32, len(partitions))
	for idx, partition := range partitions {
		partitionIDs[idx] = partition.Partition
	}

	log.Info(event,
		zap.Int("partitionCount", len(partitions)),
		zap.Int32s("partitions", partitionIDs))
}
