package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaContainer wraps a running single-broker kafka container.
type KafkaContainer struct {
	Container *tckafka.KafkaContainer
	// Brokers is the comma-separated bootstrap server list.
	Brokers string
}

// StartKafka starts a kafka container in KRaft mode.
func StartKafka(ctx context.Context) (*KafkaContainer, error) {
	kafkaContainer, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.7.0",
		tckafka.WithClusterID("marketdata-test"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka container: %w", err)
	}

	brokers, err := kafkaContainer.Brokers(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(kafkaContainer)
		return nil, fmt.Errorf("failed to get broker list: %w", err)
	}

	return &KafkaContainer{
		Container: kafkaContainer,
		Brokers:   strings.Join(brokers, ","),
	}, nil
}

// Terminate stops the container.
func (k *KafkaContainer) Terminate(ctx context.Context) error {
	if k.Container == nil {
		return nil
	}
	if err := testcontainers.TerminateContainer(k.Container); err != nil {
		return fmt.Errorf("failed to terminate kafka container: %w", err)
	}
	return nil
}
