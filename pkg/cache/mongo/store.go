// Package mongo implements the snapshot store on mongodb: one document per
// key with the type tag indexed for per-type enumeration.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/v2/mongo/otelmongo"
	"go.uber.org/zap"

	"github.com/halcyonmkt/marketdata-commons/pkg/cache"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// snapshotDoc is the stored document layout. The payload stays the
// canonical mapping JSON so integers and exact-decimal strings survive
// byte-for-byte.
type snapshotDoc struct {
	Key       string    `bson:"_id"`
	Type      string    `bson:"type"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store is the mongodb-backed snapshot store.
type Store struct {
	client     *mongodriver.Client
	collection *mongodriver.Collection
	conf       Config
	log        *zap.Logger
}

// NewStore creates the client without dialing. Connect validates the
// connection and creates the type index.
func NewStore(conf Config, log *zap.Logger) (*Store, error) {
	applyDefaults(&conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	clientOptions := options.Client().
		ApplyURI(conf.URI()).
		SetMaxPoolSize(conf.MaxPoolSize).
		SetMinPoolSize(conf.MinPoolSize).
		SetMaxConnIdleTime(conf.MaxConnIdleTime).
		SetServerSelectionTimeout(conf.ServerSelectTimeout).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongodriver.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(conf.Database).Collection(conf.Collection),
		conf:       conf,
		log:        log,
	}, nil
}

// Connect pings the server and ensures the type index exists.
func (s *Store) Connect(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, s.conf.ConnectTimeout)
	defer cancel()

	if err := s.client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	indexCtx, cancelIndex := context.WithTimeout(ctx, s.conf.ConnectTimeout)
	defer cancelIndex()

	_, err := s.collection.Indexes().CreateOne(indexCtx, mongodriver.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create type index: %w", err)
	}

	s.log.Info("connected to mongo",
		zap.String("database", s.conf.Database),
		zap.String("collection", s.conf.Collection),
	)
	return nil
}

// Put implements cache.Store.
func (s *Store) Put(ctx context.Context, key string, m serialization.Mapping) error {
	tag, err := m.Type()
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}

	opCtx, cancel := s.queryContext(ctx)
	defer cancel()

	doc := snapshotDoc{Key: key, Type: tag, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	_, err = s.collection.ReplaceOne(opCtx, bson.D{{Key: "_id", Value: key}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cache put %q: %w", key, err)
	}
	return nil
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) (serialization.Mapping, error) {
	opCtx, cancel := s.queryContext(ctx)
	defer cancel()

	var doc snapshotDoc
	err := s.collection.FindOne(opCtx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	var m serialization.Mapping
	if err := json.Unmarshal([]byte(doc.Payload), &m); err != nil {
		return nil, fmt.Errorf("cache get %q: %v: %w", key, err, serialization.ErrMalformedWireValue)
	}
	return m, nil
}

// Keys implements cache.Store.
func (s *Store) Keys(ctx context.Context, tag string) ([]string, error) {
	opCtx, cancel := s.queryContext(ctx)
	defer cancel()

	cursor, err := s.collection.Find(opCtx, bson.D{{Key: "type", Value: tag}},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cache keys %q: %w", tag, err)
	}

	var docs []struct {
		Key string `bson:"_id"`
	}
	if err := cursor.All(opCtx, &docs); err != nil {
		return nil, fmt.Errorf("cache keys %q: %w", tag, err)
	}

	keys := make([]string, len(docs))
	for i, doc := range docs {
		keys[i] = doc.Key
	}
	return keys, nil
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	opCtx, cancel := s.queryContext(ctx)
	defer cancel()

	res, err := s.collection.DeleteOne(opCtx, bson.D{{Key: "_id", Value: key}})
	if err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return cache.ErrNotFound
	}
	return nil
}

// Close implements cache.Store.
func (s *Store) Close(ctx context.Context) error {
	disconnectCtx, cancel := context.WithTimeout(ctx, s.conf.ConnectTimeout)
	defer cancel()

	if err := s.client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	return nil
}

func (s *Store) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.conf.QueryTimeout)
}
