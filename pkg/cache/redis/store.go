// Package redis implements the snapshot store on redis: one JSON value per
// key plus a set per type tag indexing which keys hold that type.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/cache"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// redisClient is the subset of *goredis.Client the store uses.
type redisClient interface {
	Ping(ctx context.Context) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	SMembers(ctx context.Context, key string) *goredis.StringSliceCmd
	SRem(ctx context.Context, key string, members ...interface{}) *goredis.IntCmd
	TxPipeline() goredis.Pipeliner
	Close() error
}

// Store is the redis-backed snapshot store.
type Store struct {
	client redisClient
	conf   Config
	log    *zap.Logger
}

// NewStore wraps an existing redis client. Use Connect for the dial-and-ping
// path.
func NewStore(client redisClient, conf Config, log *zap.Logger) *Store {
	applyDefaults(&conf)
	return &Store{client: client, conf: conf, log: log}
}

// Connect dials redis and pings it with exponential backoff until the
// connect timeout elapses.
func Connect(ctx context.Context, conf Config, log *zap.Logger) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	s := NewStore(client, conf, log)
	if err := s.ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("connected to redis", zap.String("addr", conf.Addr), zap.Int("db", conf.DB))
	return s, nil
}

func (s *Store) ping(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = s.conf.ConnectTimeout

	err := backoff.Retry(func() error {
		return s.client.Ping(ctx).Err()
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return fmt.Errorf("failed to ping redis at %s: %w", s.conf.Addr, err)
	}
	return nil
}

// Put implements cache.Store. The mapping's tag is added to the per-type
// index set in the same transaction as the value write.
func (s *Store) Put(ctx context.Context, key string, m serialization.Mapping) error {
	tag, err := m.Type()
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.valueKey(key), data, s.conf.TTL)
	pipe.SAdd(ctx, s.indexKey(tag), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}
	return nil
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) (serialization.Mapping, error) {
	data, err := s.client.Get(ctx, s.valueKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	var m serialization.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cache get %q: %v: %w", key, err, serialization.ErrMalformedWireValue)
	}
	return m, nil
}

// Keys implements cache.Store. Index entries whose values have expired are
// pruned as a side effect.
func (s *Store) Keys(ctx context.Context, tag string) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey(tag)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache keys %q: %w", tag, err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	pipe := s.client.TxPipeline()
	existsCmds := make([]*goredis.IntCmd, len(members))
	for i, member := range members {
		existsCmds[i] = pipe.Exists(ctx, s.valueKey(member))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("cache keys %q: %w", tag, err)
	}

	keys := make([]string, 0, len(members))
	var stale []interface{}
	for i, member := range members {
		if existsCmds[i].Val() > 0 {
			keys = append(keys, member)
		} else {
			stale = append(stale, member)
		}
	}

	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.indexKey(tag), stale...).Err(); err != nil {
			s.log.Warn("failed to prune stale index entries",
				zap.String("tag", tag), zap.Int("stale", len(stale)), zap.Error(err))
		}
	}
	return keys, nil
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	m, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	tag, err := m.Type()
	if err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.valueKey(key))
	pipe.SRem(ctx, s.indexKey(tag), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}

// Close implements cache.Store.
func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

func (s *Store) valueKey(key string) string {
	return s.conf.KeyPrefix + ":" + key
}

func (s *Store) indexKey(tag string) string {
	return s.conf.KeyPrefix + ":index:" + tag
}
