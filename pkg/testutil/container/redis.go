package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer wraps a running redis container.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	// Addr is the host:port the container listens on.
	Addr string
}

// StartRedis starts a redis container.
func StartRedis(ctx context.Context) (*RedisContainer, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7")
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	connectionString, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(redisContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &RedisContainer{
		Container: redisContainer,
		Addr:      strings.TrimPrefix(connectionString, "redis://"),
	}, nil
}

// Terminate stops the container.
func (r *RedisContainer) Terminate(ctx context.Context) error {
	if r.Container == nil {
		return nil
	}
	if err := testcontainers.TerminateContainer(r.Container); err != nil {
		return fmt.Errorf("failed to terminate redis container: %w", err)
	}
	return nil
}
