package tardis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

var testTime = time.Date(2019, 10, 23, 10, 32, 49, 669000000, time.UTC)

func decodeMessage[T any](t *testing.T, raw string) T {
	t.Helper()
	var msg T
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	return msg
}

func TestParseBookChange(t *testing.T) {
	msg := decodeMessage[BookChangeMessage](t, `{
		"type": "book_change",
		"symbol": "XBTUSD",
		"exchange": "bitmex",
		"isSnapshot": false,
		"bids": [],
		"asks": [{"price": 7985, "amount": 283318}],
		"timestamp": "2019-10-23T11:29:53.469Z",
		"localTimestamp": "2019-10-23T11:29:53.469Z"
	}`)

	deltas, err := ParseBookChange(msg)
	require.NoError(t, err)
	require.Len(t, deltas, 1)

	delta := deltas[0]
	assert.Equal(t, marketdata.InstrumentID("XBTUSD.BITMEX"), delta.InstrumentID)
	assert.Equal(t, marketdata.BookActionUpdate, delta.Action)
	assert.Equal(t, marketdata.OrderSideSell, delta.Side)
	assert.True(t, delta.Price.Equal(decimal.RequireFromString("7985")))
	assert.True(t, delta.Size.Equal(decimal.RequireFromString("283318")))
	assert.Empty(t, delta.OrderID)
	assert.Equal(t, marketdata.BookTypeL2, delta.BookType)
	assert.Equal(t, int64(1571830193469000000), delta.TsEvent)
	assert.Equal(t, int64(1571830193469000000), delta.TsInit)
}

func TestParseBookChange_ZeroAmountDeletes(t *testing.T) {
	msg := BookChangeMessage{
		Symbol:         "XBTUSD",
		Exchange:       "bitmex",
		Bids:           []BookLevel{{Price: decimal.RequireFromString("7984.5"), Amount: decimal.Zero}},
		Timestamp:      testTime,
		LocalTimestamp: testTime,
	}

	deltas, err := ParseBookChange(msg)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, marketdata.BookActionDelete, deltas[0].Action)
	assert.Equal(t, marketdata.OrderSideBuy, deltas[0].Side)
}

func TestParseBookSnapshot(t *testing.T) {
	msg := decodeMessage[BookSnapshotMessage](t, `{
		"type": "book_snapshot",
		"symbol": "XBTUSD",
		"exchange": "bitmex",
		"name": "book_snapshot_2_50ms",
		"depth": 2,
		"interval": 50,
		"bids": [{"price": 7633.5, "amount": 1906067}, {"price": 7633, "amount": 65319}],
		"asks": [{"price": 7634, "amount": 1467849}, {"price": 7634.5, "amount": 67939}],
		"timestamp": "2019-10-25T13:39:46.950Z",
		"localTimestamp": "2019-10-25T13:39:46.961Z"
	}`)

	deltas, err := ParseBookSnapshot(msg)
	require.NoError(t, err)
	require.Len(t, deltas, 5, "a clear delta leads, then one delta per level")

	clearDelta := deltas[0]
	assert.Equal(t, marketdata.BookActionClear, clearDelta.Action)
	assert.Equal(t, marketdata.NoOrderSide, clearDelta.Side)
	assert.Equal(t, int64(1572010786950000000), clearDelta.TsEvent)
	assert.Equal(t, int64(1572010786961000000), clearDelta.TsInit)

	topBid := deltas[1]
	assert.Equal(t, marketdata.BookActionAdd, topBid.Action)
	assert.Equal(t, marketdata.OrderSideBuy, topBid.Side)
	assert.True(t, topBid.Price.Equal(decimal.RequireFromString("7633.5")))
	assert.True(t, topBid.Size.Equal(decimal.RequireFromString("1906067")))

	topAsk := deltas[3]
	assert.Equal(t, marketdata.BookActionAdd, topAsk.Action)
	assert.Equal(t, marketdata.OrderSideSell, topAsk.Side)
	assert.True(t, topAsk.Price.Equal(decimal.RequireFromString("7634")))

	for _, delta := range deltas {
		assert.Equal(t, marketdata.InstrumentID("XBTUSD.BITMEX"), delta.InstrumentID)
	}
}

func TestParseTrade(t *testing.T) {
	msg := decodeMessage[TradeMessage](t, `{
		"type": "trade",
		"symbol": "XBTUSD",
		"exchange": "bitmex",
		"id": "282a0445-0e3a-abeb-f403-11003204ea1b",
		"price": 7996,
		"amount": 50,
		"side": "sell",
		"timestamp": "2019-10-23T10:32:49.669Z",
		"localTimestamp": "2019-10-23T10:32:49.740Z"
	}`)

	trade, err := ParseTrade(msg)
	require.NoError(t, err)

	assert.Equal(t, marketdata.InstrumentID("XBTUSD.BITMEX"), trade.InstrumentID)
	assert.True(t, trade.Price.Equal(decimal.RequireFromString("7996")))
	assert.True(t, trade.Size.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, marketdata.AggressorSideSeller, trade.Aggressor)
	assert.Equal(t, "282a0445-0e3a-abeb-f403-11003204ea1b", trade.TradeID)
	assert.Equal(t, int64(1571826769669000000), trade.TsEvent)
	assert.Equal(t, int64(1571826769740000000), trade.TsInit)
}

func TestParseTrade_GeneratesMissingTradeID(t *testing.T) {
	msg := TradeMessage{
		Symbol:         "XBTUSD",
		Exchange:       "bitmex",
		Price:          decimal.RequireFromString("7996"),
		Amount:         decimal.RequireFromString("50"),
		Side:           "unknown",
		Timestamp:      testTime,
		LocalTimestamp: testTime,
	}

	trade, err := ParseTrade(msg)
	require.NoError(t, err)

	_, err = uuid.Parse(trade.TradeID)
	assert.NoError(t, err, "missing venue trade ids are replaced by a UUID")
	assert.Equal(t, marketdata.NoAggressor, trade.Aggressor)
}

func TestParseDerivativeTicker(t *testing.T) {
	msg := decodeMessage[DerivativeTickerMessage](t, `{
		"type": "derivative_ticker",
		"symbol": "BTC-PERPETUAL",
		"exchange": "deribit",
		"lastPrice": 7987.5,
		"openInterest": 84129491,
		"fundingRate": -0.00001568,
		"indexPrice": 7989.28,
		"markPrice": 7987.56,
		"timestamp": "2019-10-23T11:34:29.302Z",
		"localTimestamp": "2019-10-23T11:34:29.416Z"
	}`)

	ticker, err := ParseDerivativeTicker(msg)
	require.NoError(t, err)

	assert.Equal(t, marketdata.InstrumentID("BTC-PERPETUAL.DERIBIT"), ticker.InstrumentID)
	require.True(t, ticker.LastTradedPrice.Valid)
	assert.True(t, ticker.LastTradedPrice.Decimal.Equal(decimal.RequireFromString("7987.5")))
	assert.False(t, ticker.TradedVolume.Valid, "derivative tickers carry no traded volume")

	require.NotNil(t, ticker.Info)
	assert.Equal(t, "-0.00001568", ticker.Info["funding_rate"], "venue decimals stay exact in the info document")
	assert.Equal(t, "84129491", ticker.Info["open_interest"])
	assert.Equal(t, "7989.28", ticker.Info["index_price"])
	assert.Equal(t, "7987.56", ticker.Info["mark_price"])
}

func TestParseDerivativeTicker_SparseFields(t *testing.T) {
	msg := decodeMessage[DerivativeTickerMessage](t, `{
		"symbol": "BTC-PERPETUAL",
		"exchange": "deribit",
		"timestamp": "2019-10-23T11:34:29.302Z",
		"localTimestamp": "2019-10-23T11:34:29.416Z"
	}`)

	ticker, err := ParseDerivativeTicker(msg)
	require.NoError(t, err)

	assert.False(t, ticker.LastTradedPrice.Valid)
	assert.Nil(t, ticker.Info, "no derivative fields means no info document")
}

func TestParsedValuesSurviveTheWire(t *testing.T) {
	reg := serialization.NewRegistry()
	require.NoError(t, marketdata.RegisterAll(reg))

	trade, err := ParseTrade(TradeMessage{
		Symbol:         "XBTUSD",
		Exchange:       "bitmex",
		ID:             "t-1",
		Price:          decimal.RequireFromString("7996.5"),
		Amount:         decimal.RequireFromString("50"),
		Side:           "buy",
		Timestamp:      testTime,
		LocalTimestamp: testTime,
	})
	require.NoError(t, err)

	m, err := reg.Encode(trade)
	require.NoError(t, err)
	decoded, err := reg.DecodeAny(m)
	require.NoError(t, err)

	assert.True(t, trade.Equal(decoded.(marketdata.TradeTick)))
}

func TestInstrumentIDFor(t *testing.T) {
	assert.Equal(t, marketdata.InstrumentID("XBTUSD.BITMEX"), InstrumentIDFor("bitmex", "XBTUSD"))
	assert.Equal(t, marketdata.InstrumentID("BTC-PERPETUAL.DERIBIT"), InstrumentIDFor("deribit", "btc-perpetual"))
}
