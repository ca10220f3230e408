package serialization

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_String_Success(t *testing.T) {
	m := Mapping{"instrument_id": "BTC-PERP.TARDIS"}

	got, err := m.String("instrument_id")

	require.NoError(t, err)
	assert.Equal(t, "BTC-PERP.TARDIS", got)
}

func TestMapping_String_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		m    Mapping
	}{
		{"missing key", Mapping{}},
		{"explicit null", Mapping{"instrument_id": nil}},
		{"wrong kind", Mapping{"instrument_id": int64(7)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.m.String("instrument_id")

			assert.ErrorIs(t, err, ErrMalformedWireValue)
		})
	}
}

func TestMapping_NullableString(t *testing.T) {
	m := Mapping{"last_traded_price": "42000.5", "traded_volume": nil}

	price, err := m.NullableString("last_traded_price")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, "42000.5", *price)

	volume, err := m.NullableString("traded_volume")
	require.NoError(t, err)
	assert.Nil(t, volume)

	missing, err := m.NullableString("not_there")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMapping_NullableString_WrongKind(t *testing.T) {
	m := Mapping{"last_traded_price": int64(42)}

	_, err := m.NullableString("last_traded_price")

	assert.ErrorIs(t, err, ErrMalformedWireValue)
}

func TestMapping_Int64(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  int64
	}{
		{"int64", int64(1000), 1000},
		{"int", int(1000), 1000},
		{"integral json.Number", json.Number("1000"), 1000},
		{"integral float64", float64(1000), 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Mapping{"ts_event": tc.value}

			got, err := m.Int64("ts_event")

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMapping_Int64_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		m    Mapping
	}{
		{"missing key", Mapping{}},
		{"explicit null", Mapping{"ts_event": nil}},
		{"string", Mapping{"ts_event": "1000"}},
		{"non-integral float64", Mapping{"ts_event": 1.5}},
		{"non-integral json.Number", Mapping{"ts_event": json.Number("1.5")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.m.Int64("ts_event")

			assert.ErrorIs(t, err, ErrMalformedWireValue)
		})
	}
}

func TestMapping_NullableDoc(t *testing.T) {
	doc := []byte(`{"venue":"TARDIS","depth":25}`)
	m := Mapping{"info": doc}

	got, err := m.NullableDoc("info")

	require.NoError(t, err)
	assert.Equal(t, "TARDIS", got["venue"])
	assert.Equal(t, json.Number("25"), got["depth"])
}

func TestMapping_NullableDoc_AbsentAndNull(t *testing.T) {
	m := Mapping{"info": nil}

	got, err := m.NullableDoc("info")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.NullableDoc("not_there")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapping_NullableDoc_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		m    Mapping
	}{
		{"invalid JSON", Mapping{"info": []byte(`{"venue":`)}},
		{"scalar kind", Mapping{"info": int64(5)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.m.NullableDoc("info")

			assert.ErrorIs(t, err, ErrMalformedWireValue)
		})
	}
}

func TestMapping_MarshalJSON_Canonical(t *testing.T) {
	m := Mapping{
		"type":              "TickerSnapshot",
		"instrument_id":     "BTC-PERP.TARDIS",
		"ts_event":          int64(1000),
		"traded_volume":     nil,
		"last_traded_price": "42000.5",
		"info":              []byte(`{"venue":"TARDIS"}`),
	}

	data, err := json.Marshal(m)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "TickerSnapshot",
		"instrument_id": "BTC-PERP.TARDIS",
		"ts_event": 1000,
		"traded_volume": null,
		"last_traded_price": "42000.5",
		"info": {"venue": "TARDIS"}
	}`, string(data))
}

func TestMapping_MarshalJSON_UnsupportedKind(t *testing.T) {
	m := Mapping{"ok": true}

	_, err := json.Marshal(m)

	assert.ErrorIs(t, err, ErrMalformedWireValue)
}

func TestMapping_MarshalJSON_InvalidNestedDoc(t *testing.T) {
	m := Mapping{"info": []byte(`{"broken`)}

	_, err := json.Marshal(m)

	assert.ErrorIs(t, err, ErrMalformedWireValue)
}

func TestMapping_UnmarshalJSON_Kinds(t *testing.T) {
	data := []byte(`{
		"type": "TickerSnapshot",
		"ts_event": 1000,
		"traded_volume": null,
		"info": {"venue": "TARDIS", "depth": 25}
	}`)

	var m Mapping
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "TickerSnapshot", m["type"])
	assert.Equal(t, int64(1000), m["ts_event"])

	// Explicit null survives as a present key.
	v, ok := m["traded_volume"]
	assert.True(t, ok)
	assert.Nil(t, v)

	doc, ok := m["info"].([]byte)
	require.True(t, ok)
	assert.JSONEq(t, `{"venue":"TARDIS","depth":25}`, string(doc))
}

func TestMapping_UnmarshalJSON_NotAnObject(t *testing.T) {
	var m Mapping

	err := json.Unmarshal([]byte(`[1,2,3]`), &m)

	assert.ErrorIs(t, err, ErrMalformedWireValue)
}

func TestMapping_JSONRoundTrip(t *testing.T) {
	m := Mapping{
		"type":          "TickerSnapshot",
		"instrument_id": "BTC-PERP.TARDIS",
		"ts_event":      int64(1000),
		"ts_init":       int64(1005),
		"traded_volume": nil,
		"info":          []byte(`{"venue":"TARDIS"}`),
	}

	first, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Mapping
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestMarshalDoc(t *testing.T) {
	b, err := MarshalDoc(map[string]any{"venue": "TARDIS"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"venue":"TARDIS"}`, string(b))
}
