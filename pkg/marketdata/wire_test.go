package marketdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

func TestTickerSnapshotCodec_RoundTrip(t *testing.T) {
	codec := tickerSnapshotCodec{}
	ticker, err := NewTickerSnapshot(
		"BTC-PERP",
		mustNullDecimal(t, "42000.5"),
		decimal.NullDecimal{},
		nil,
		1000,
		1005,
	)
	require.NoError(t, err)

	m, err := codec.Encode(ticker)
	require.NoError(t, err)

	// Absent optionals are explicit nulls, never omitted keys.
	tag, err := m.Type()
	require.NoError(t, err)
	assert.Equal(t, "TickerSnapshot", tag)
	assert.Equal(t, "BTC-PERP", m[FieldInstrumentID])
	assert.Equal(t, int64(1000), m[FieldTsEvent])
	assert.Equal(t, int64(1005), m[FieldTsInit])
	assert.Equal(t, "42000.5", m[FieldLastTradedPrice])
	volume, present := m[FieldTradedVolume]
	assert.True(t, present)
	assert.Nil(t, volume)
	info, present := m[FieldInfo]
	assert.True(t, present)
	assert.Nil(t, info)

	decoded, err := codec.Decode(m)
	require.NoError(t, err)
	assert.True(t, ticker.Equal(decoded.(TickerSnapshot)))
}

func TestTickerSnapshotCodec_RoundTrip_AllFieldsSet(t *testing.T) {
	codec := tickerSnapshotCodec{}
	ticker, err := NewTickerSnapshot(
		"BTC-PERP.TARDIS",
		mustNullDecimal(t, "42000.5"),
		mustNullDecimal(t, "118.0521"),
		map[string]any{"venue": "TARDIS", "depth": int64(25), "nested": map[string]any{"ok": "yes"}},
		1000,
		1005,
	)
	require.NoError(t, err)

	m, err := codec.Encode(ticker)
	require.NoError(t, err)
	decoded, err := codec.Decode(m)
	require.NoError(t, err)

	assert.True(t, ticker.Equal(decoded.(TickerSnapshot)))
}

func TestTickerSnapshotCodec_MissingOptionalEqualsNull(t *testing.T) {
	codec := tickerSnapshotCodec{}

	withNulls := serialization.Mapping{
		serialization.TypeKey: "TickerSnapshot",
		FieldInstrumentID:     "BTC-PERP",
		FieldTsEvent:          int64(1000),
		FieldTsInit:           int64(1005),
		FieldLastTradedPrice:  nil,
		FieldTradedVolume:     nil,
		FieldInfo:             nil,
	}
	withoutKeys := serialization.Mapping{
		serialization.TypeKey: "TickerSnapshot",
		FieldInstrumentID:     "BTC-PERP",
		FieldTsEvent:          int64(1000),
		FieldTsInit:           int64(1005),
	}

	fromNulls, err := codec.Decode(withNulls)
	require.NoError(t, err)
	fromMissing, err := codec.Decode(withoutKeys)
	require.NoError(t, err)

	assert.True(t, fromNulls.(TickerSnapshot).Equal(fromMissing.(TickerSnapshot)))
}

func TestTickerSnapshotCodec_Malformed(t *testing.T) {
	codec := tickerSnapshotCodec{}

	testCases := []struct {
		name string
		m    serialization.Mapping
	}{
		{"missing instrument_id", serialization.Mapping{
			serialization.TypeKey: "TickerSnapshot",
			FieldTsEvent:          int64(1000),
			FieldTsInit:           int64(1005),
		}},
		{"missing ts_event", serialization.Mapping{
			serialization.TypeKey: "TickerSnapshot",
			FieldInstrumentID:     "BTC-PERP",
			FieldTsInit:           int64(1005),
		}},
		{"non-numeric price string", serialization.Mapping{
			serialization.TypeKey: "TickerSnapshot",
			FieldInstrumentID:     "BTC-PERP",
			FieldTsEvent:          int64(1000),
			FieldTsInit:           int64(1005),
			FieldLastTradedPrice:  "not-a-price",
		}},
		{"wrong kind for ts_event", serialization.Mapping{
			serialization.TypeKey: "TickerSnapshot",
			FieldInstrumentID:     "BTC-PERP",
			FieldTsEvent:          "1000x",
			FieldTsInit:           int64(1005),
		}},
		{"negative ts_event", serialization.Mapping{
			serialization.TypeKey: "TickerSnapshot",
			FieldInstrumentID:     "BTC-PERP",
			FieldTsEvent:          int64(-1),
			FieldTsInit:           int64(1005),
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode(tc.m)

			assert.ErrorIs(t, err, serialization.ErrMalformedWireValue)
		})
	}
}

func TestTickerSnapshotCodec_TagMismatch(t *testing.T) {
	codec := tickerSnapshotCodec{}

	_, err := codec.Decode(serialization.Mapping{serialization.TypeKey: "TradeTick"})

	assert.ErrorIs(t, err, serialization.ErrUnknownType)
}

func TestTickerSnapshotCodec_EncodeWrongValue(t *testing.T) {
	codec := tickerSnapshotCodec{}
	trade, err := NewTradeTick("BTC-PERP", mustDecimal(t, "1"), mustDecimal(t, "1"), AggressorSideBuyer, "t-1", 1000, 1005)
	require.NoError(t, err)

	_, err = codec.Encode(trade)

	assert.ErrorIs(t, err, serialization.ErrUnknownType)
}

func TestIndicativeBookDeltaCodec_RoundTrip(t *testing.T) {
	codec := indicativeBookDeltaCodec{}

	testCases := []struct {
		name  string
		delta func(t *testing.T) IndicativeBookDelta
	}{
		{"add", func(t *testing.T) IndicativeBookDelta {
			d, err := NewIndicativeBookDelta("1.180737206.TARDIS", BookActionAdd, OrderSideBuy,
				mustDecimal(t, "2.02"), mustDecimal(t, "88.44"), "o-1001", BookTypeL2, 1000, 1005)
			require.NoError(t, err)
			return d
		}},
		{"delete with zero placeholders", func(t *testing.T) IndicativeBookDelta {
			d, err := NewIndicativeBookDelta("1.180737206.TARDIS", BookActionDelete, OrderSideSell,
				decimal.Zero, decimal.Zero, "o-1001", BookTypeL2, 1000, 1005)
			require.NoError(t, err)
			return d
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			delta := tc.delta(t)

			m, err := codec.Encode(delta)
			require.NoError(t, err)
			assert.Equal(t, delta.Action.String(), m[FieldAction])
			assert.Equal(t, delta.Price.String(), m[FieldOrderPrice])

			decoded, err := codec.Decode(m)
			require.NoError(t, err)
			assert.True(t, delta.Equal(decoded.(IndicativeBookDelta)))
		})
	}
}

func TestIndicativeBookDeltaCodec_InvalidEnum(t *testing.T) {
	codec := indicativeBookDeltaCodec{}
	m := serialization.Mapping{
		serialization.TypeKey: "IndicativeBookDelta",
		FieldInstrumentID:     "1.180737206.TARDIS",
		FieldTsEvent:          int64(1000),
		FieldTsInit:           int64(1005),
		FieldAction:           "MODIFY",
		FieldOrderSide:        "BUY",
		FieldOrderPrice:       "2.02",
		FieldOrderSize:        "88.44",
		FieldOrderID:          "o-1001",
		FieldBookType:         "L2_MBP",
	}

	_, err := codec.Decode(m)

	assert.ErrorIs(t, err, serialization.ErrMalformedWireValue)
}

func TestTradeTickCodec_RoundTrip(t *testing.T) {
	codec := tradeTickCodec{}
	trade, err := NewTradeTick("BTC-PERP.TARDIS", mustDecimal(t, "42000.5"), mustDecimal(t, "0.2412"),
		AggressorSideSeller, "5e9be5b8-d399-4e5e-a928-4f1c5c0c2h7b", 1000, 1005)
	require.NoError(t, err)

	m, err := codec.Encode(trade)
	require.NoError(t, err)
	decoded, err := codec.Decode(m)
	require.NoError(t, err)

	assert.True(t, trade.Equal(decoded.(TradeTick)))
}

func TestInstrumentSearchResultCodec_RoundTrip(t *testing.T) {
	codec := instrumentSearchResultCodec{}
	result, err := NewInstrumentSearchResult([]InstrumentDescriptor{
		{ID: "BTC-PERP.TARDIS", Symbol: "BTC-PERP", Venue: "TARDIS", BaseCurrency: "BTC", QuoteCurrency: "USDT", PricePrecision: 1, SizePrecision: 4},
		{ID: "ETH-PERP.TARDIS", Symbol: "ETH-PERP", Venue: "TARDIS", BaseCurrency: "ETH", QuoteCurrency: "USDT", PricePrecision: 2, SizePrecision: 3},
	}, 1000, 1005)
	require.NoError(t, err)

	m, err := codec.Encode(result)
	require.NoError(t, err)
	decoded, err := codec.Decode(m)
	require.NoError(t, err)

	assert.True(t, result.Equal(decoded.(InstrumentSearchResult)))
}

func TestInstrumentSearchResultCodec_EmptyCollection(t *testing.T) {
	codec := instrumentSearchResultCodec{}
	result, err := NewInstrumentSearchResult(nil, 1000, 1005)
	require.NoError(t, err)

	m, err := codec.Encode(result)
	require.NoError(t, err)

	// An empty collection is an empty document, not null.
	doc, err := m.Doc(FieldInstruments)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(doc))

	decoded, err := codec.Decode(m)
	require.NoError(t, err)
	assert.True(t, result.Equal(decoded.(InstrumentSearchResult)))
}

func TestInstrumentSearchResultCodec_MissingInstruments(t *testing.T) {
	codec := instrumentSearchResultCodec{}
	m := serialization.Mapping{
		serialization.TypeKey: "InstrumentSearchResult",
		FieldTsEvent:          int64(1000),
		FieldTsInit:           int64(1005),
	}

	_, err := codec.Decode(m)

	assert.ErrorIs(t, err, serialization.ErrMalformedWireValue)
}
