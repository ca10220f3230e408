package mongo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/halcyonmkt/marketdata-commons/pkg/cache"
	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
	"github.com/halcyonmkt/marketdata-commons/pkg/testutil/container"
)

func startStore(t *testing.T) *Store {
	t.Helper()
	container.SkipUnlessIntegration(t)

	ctx := context.Background()
	mongoContainer, err := container.StartMongoDB(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongoContainer.Terminate(context.Background()) })

	conf := Config{
		ConnectionString: mongoContainer.ConnectionString,
		Database:         "marketdata-test",
	}

	store, err := NewStore(conf, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, store.Connect(ctx))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return store
}

func tickerMapping(t *testing.T, instrumentID string) serialization.Mapping {
	t.Helper()
	reg := serialization.NewRegistry()
	require.NoError(t, marketdata.RegisterAll(reg))

	price := decimal.NullDecimal{Decimal: decimal.RequireFromString("42000.5"), Valid: true}
	ticker, err := marketdata.NewTickerSnapshot(marketdata.InstrumentID(instrumentID), price, decimal.NullDecimal{}, nil, 1000, 1005)
	require.NoError(t, err)

	m, err := reg.Encode(ticker)
	require.NoError(t, err)
	return m
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	m := tickerMapping(t, "BTC-PERP.TESTEX")
	require.NoError(t, store.Put(ctx, "BTC-PERP.TESTEX", m))

	got, err := store.Get(ctx, "BTC-PERP.TESTEX")
	require.NoError(t, err)

	assert.Equal(t, m, got, "canonical mapping survives the store byte-exactly")
	assert.Equal(t, int64(1000), got["ts_event"], "integers stay int64")

	volume, ok := got["traded_volume"]
	require.True(t, ok, "explicit null survives the store")
	assert.Nil(t, volume)
}

func TestStore_PutReplacesExisting(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "BTC-PERP.TESTEX", tickerMapping(t, "BTC-PERP.TESTEX")))

	updated := tickerMapping(t, "BTC-PERP.TESTEX")
	updated["ts_event"] = int64(2000)
	require.NoError(t, store.Put(ctx, "BTC-PERP.TESTEX", updated))

	got, err := store.Get(ctx, "BTC-PERP.TESTEX")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got["ts_event"])

	keys, err := store.Keys(ctx, marketdata.WireTypeTickerSnapshot)
	require.NoError(t, err)
	assert.Len(t, keys, 1, "upsert replaces instead of duplicating")
}

func TestStore_FetchDecodes(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	reg := serialization.NewRegistry()
	require.NoError(t, marketdata.RegisterAll(reg))

	require.NoError(t, store.Put(ctx, "BTC-PERP.TESTEX", tickerMapping(t, "BTC-PERP.TESTEX")))

	v, err := cache.Fetch(ctx, store, reg, "BTC-PERP.TESTEX")
	require.NoError(t, err)

	ticker, ok := v.(marketdata.TickerSnapshot)
	require.True(t, ok)
	assert.Equal(t, marketdata.InstrumentID("BTC-PERP.TESTEX"), ticker.InstrumentID)
}

func TestStore_KeysByTag(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "BTC-PERP.TESTEX", tickerMapping(t, "BTC-PERP.TESTEX")))
	require.NoError(t, store.Put(ctx, "ETH-PERP.TESTEX", tickerMapping(t, "ETH-PERP.TESTEX")))

	keys, err := store.Keys(ctx, marketdata.WireTypeTickerSnapshot)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BTC-PERP.TESTEX", "ETH-PERP.TESTEX"}, keys)

	keys, err = store.Keys(ctx, marketdata.WireTypeTradeTick)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_Delete(t *testing.T) {
	store := startStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "BTC-PERP.TESTEX", tickerMapping(t, "BTC-PERP.TESTEX")))
	require.NoError(t, store.Delete(ctx, "BTC-PERP.TESTEX"))

	_, err := store.Get(ctx, "BTC-PERP.TESTEX")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "BTC-PERP.TESTEX"), cache.ErrNotFound)
}

func TestStore_GetMissing(t *testing.T) {
	store := startStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestStore_PutRejectsTaglessMapping(t *testing.T) {
	store := startStore(t)

	err := store.Put(context.Background(), "k", serialization.Mapping{"instrument_id": "X"})
	require.ErrorIs(t, err, serialization.ErrMalformedWireValue)
}
