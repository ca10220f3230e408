package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"

	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/transport"
)

type fakeProducer struct {
	mu          sync.Mutex
	produced    []*kafka.Message
	produceErr  error
	deliveryErr error
	flushed     bool
	closed      bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.produceErr != nil {
		return f.produceErr
	}
	f.produced = append(f.produced, msg)

	delivered := *msg
	delivered.TopicPartition.Error = f.deliveryErr
	deliveryChan <- &delivered
	return nil
}

func (f *fakeProducer) Flush(int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed = true
	return 0
}

func (f *fakeProducer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func newTestRegistry(t *testing.T) *serialization.Registry {
	t.Helper()
	reg := serialization.NewRegistry()
	require.NoError(t, marketdata.RegisterAll(reg))
	return reg
}

func testTicker(t *testing.T) marketdata.TickerSnapshot {
	t.Helper()
	price := decimal.NullDecimal{Decimal: decimal.RequireFromString("42000.5"), Valid: true}
	ticker, err := marketdata.NewTickerSnapshot("BTC-PERP.TESTEX", price, decimal.NullDecimal{}, nil, 1000, 1005)
	require.NoError(t, err)
	return ticker
}

func newTestPublisher(t *testing.T, producer producerClient, conf ProducerConfig) *Publisher {
	t.Helper()
	if conf.Topic == "" {
		conf.Topic = "marketdata.ticks"
	}
	if conf.DeliveryTimeout == 0 {
		conf.DeliveryTimeout = time.Second
	}

	pub, err := NewPublisher(
		producer,
		newTestRegistry(t),
		transport.NewJSONCodec(),
		conf,
		metricnoop.NewMeterProvider(),
		tracenoop.NewTracerProvider(),
		zaptest.NewLogger(t),
	)
	require.NoError(t, err)
	return pub
}

func TestPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	pub := newTestPublisher(t, producer, ProducerConfig{})

	err := pub.Publish(context.Background(), testTicker(t))

	require.NoError(t, err)
	require.Len(t, producer.produced, 1)

	msg := producer.produced[0]
	assert.Equal(t, "marketdata.ticks", *msg.TopicPartition.Topic)
	assert.Equal(t, []byte("BTC-PERP.TESTEX"), msg.Key, "messages partition by instrument")
	assert.Equal(t, marketdata.WireTypeTickerSnapshot, headerValue(msg, HeaderType))
	assert.Equal(t, transport.ContentTypeJSON, headerValue(msg, HeaderContentType))
	assert.NotEmpty(t, headerValue(msg, HeaderMessageID))

	env, err := transport.NewJSONCodec().Deserialize(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, "42000.5", env.Payload["last_traded_price"])
}

func TestPublisher_Publish_UnregisteredType(t *testing.T) {
	producer := &fakeProducer{}
	pub, err := NewPublisher(
		producer,
		serialization.NewRegistry(),
		transport.NewJSONCodec(),
		ProducerConfig{Topic: "marketdata.ticks", DeliveryTimeout: time.Second},
		metricnoop.NewMeterProvider(),
		tracenoop.NewTracerProvider(),
		zaptest.NewLogger(t),
	)
	require.NoError(t, err)

	err = pub.Publish(context.Background(), testTicker(t))

	require.ErrorIs(t, err, serialization.ErrUnregisteredType)
	assert.Empty(t, producer.produced)
}

func TestPublisher_Publish_ProduceError(t *testing.T) {
	producer := &fakeProducer{produceErr: errors.New("queue full")}
	pub := newTestPublisher(t, producer, ProducerConfig{})

	err := pub.Publish(context.Background(), testTicker(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue full")
}

func TestPublisher_Publish_DeliveryError(t *testing.T) {
	producer := &fakeProducer{deliveryErr: kafka.NewError(kafka.ErrMsgTimedOut, "timed out", false)}
	pub := newTestPublisher(t, producer, ProducerConfig{})

	err := pub.Publish(context.Background(), testTicker(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to deliver message")
}

func TestPublisher_Publish_RateLimited(t *testing.T) {
	producer := &fakeProducer{}
	pub := newTestPublisher(t, producer, ProducerConfig{RateLimit: 1000, RateBurst: 1})

	start := time.Now()
	for range 3 {
		require.NoError(t, pub.Publish(context.Background(), testTicker(t)))
	}

	// Burst 1 at 1000/s spaces three publishes by at least ~2ms.
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
	assert.Len(t, producer.produced, 3)
}

func TestPublisher_NoTopic(t *testing.T) {
	_, err := NewPublisher(
		&fakeProducer{},
		newTestRegistry(t),
		transport.NewJSONCodec(),
		ProducerConfig{},
		metricnoop.NewMeterProvider(),
		tracenoop.NewTracerProvider(),
		zaptest.NewLogger(t),
	)
	require.Error(t, err)
}

func TestPublisher_Close(t *testing.T) {
	producer := &fakeProducer{}
	pub := newTestPublisher(t, producer, ProducerConfig{FlushTimeout: time.Second})

	pub.Close()

	assert.True(t, producer.flushed)
	assert.True(t, producer.closed)
}
