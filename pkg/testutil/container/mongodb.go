package container

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoDBContainer wraps a running single-node mongo container.
type MongoDBContainer struct {
	Container *tcmongodb.MongoDBContainer
	// ConnectionString is the mongodb:// URI of the running instance.
	ConnectionString string
}

// StartMongoDB starts a mongo container. Stores dial it themselves from the
// connection string.
func StartMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	mongoContainer, err := tcmongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb container: %w", err)
	}

	connectionString, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(mongoContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MongoDBContainer{
		Container:        mongoContainer,
		ConnectionString: connectionString,
	}, nil
}

// Terminate stops the container.
func (m *MongoDBContainer) Terminate(ctx context.Context) error {
	if m.Container == nil {
		return nil
	}
	if err := testcontainers.TerminateContainer(m.Container); err != nil {
		return fmt.Errorf("failed to terminate mongodb container: %w", err)
	}
	return nil
}
