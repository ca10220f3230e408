package marketdata

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Wire mapping field names. Together with the type tags these form the
// stable cross-process contract; renaming one breaks every stored payload.
const (
	FieldInstrumentID    = "instrument_id"
	FieldTsEvent         = "ts_event"
	FieldTsInit          = "ts_init"
	FieldLastTradedPrice = "last_traded_price"
	FieldTradedVolume    = "traded_volume"
	FieldInfo            = "info"
	FieldAction          = "action"
	FieldOrderSide       = "order_side"
	FieldOrderPrice      = "order_price"
	FieldOrderSize       = "order_size"
	FieldOrderID         = "order_id"
	FieldBookType        = "book_type"
	FieldPrice           = "price"
	FieldSize            = "size"
	FieldAggressorSide   = "aggressor_side"
	FieldTradeID         = "trade_id"
	FieldInstruments     = "instruments"
)

type tickerSnapshotCodec struct{}

func (tickerSnapshotCodec) WireType() string { return WireTypeTickerSnapshot }

func (c tickerSnapshotCodec) Encode(v serialization.Serializable) (serialization.Mapping, error) {
	t, err := valueAs[TickerSnapshot](c, v)
	if err != nil {
		return nil, err
	}
	m := serialization.Mapping{
		serialization.TypeKey: WireTypeTickerSnapshot,
		FieldInstrumentID:     string(t.InstrumentID),
		FieldTsEvent:          t.TsEvent,
		FieldTsInit:           t.TsInit,
		FieldLastTradedPrice:  nullDecimalWire(t.LastTradedPrice),
		FieldTradedVolume:     nullDecimalWire(t.TradedVolume),
	}
	if t.Info == nil {
		m[FieldInfo] = nil
	} else {
		doc, err := serialization.MarshalDoc(t.Info)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", WireTypeTickerSnapshot, err)
		}
		m[FieldInfo] = doc
	}
	return m, nil
}

func (c tickerSnapshotCodec) Decode(m serialization.Mapping) (serialization.Serializable, error) {
	if err := checkTag(m, WireTypeTickerSnapshot); err != nil {
		return nil, err
	}
	instrumentID, err := m.String(FieldInstrumentID)
	if err != nil {
		return nil, err
	}
	tsEvent, err := m.Int64(FieldTsEvent)
	if err != nil {
		return nil, err
	}
	tsInit, err := m.Int64(FieldTsInit)
	if err != nil {
		return nil, err
	}
	lastTradedPrice, err := nullDecimalField(m, FieldLastTradedPrice)
	if err != nil {
		return nil, err
	}
	tradedVolume, err := nullDecimalField(m, FieldTradedVolume)
	if err != nil {
		return nil, err
	}
	info, err := m.NullableDoc(FieldInfo)
	if err != nil {
		return nil, err
	}
	v, err := NewTickerSnapshot(InstrumentID(instrumentID), lastTradedPrice, tradedVolume, info, tsEvent, tsInit)
	if err != nil {
		return nil, decodeErr(WireTypeTickerSnapshot, err)
	}
	return v, nil
}

type indicativeBookDeltaCodec struct{}

func (indicativeBookDeltaCodec) WireType() string { return WireTypeIndicativeBookDelta }

func (c indicativeBookDeltaCodec) Encode(v serialization.Serializable) (serialization.Mapping, error) {
	d, err := valueAs[IndicativeBookDelta](c, v)
	if err != nil {
		return nil, err
	}
	return serialization.Mapping{
		serialization.TypeKey: WireTypeIndicativeBookDelta,
		FieldInstrumentID:     string(d.InstrumentID),
		FieldTsEvent:          d.TsEvent,
		FieldTsInit:           d.TsInit,
		FieldAction:           d.Action.String(),
		FieldOrderSide:        d.Side.String(),
		FieldOrderPrice:       d.Price.String(),
		FieldOrderSize:        d.Size.String(),
		FieldOrderID:          d.OrderID,
		FieldBookType:         d.BookType.String(),
	}, nil
}

func (c indicativeBookDeltaCodec) Decode(m serialization.Mapping) (serialization.Serializable, error) {
	if err := checkTag(m, WireTypeIndicativeBookDelta); err != nil {
		return nil, err
	}
	instrumentID, err := m.String(FieldInstrumentID)
	if err != nil {
		return nil, err
	}
	tsEvent, err := m.Int64(FieldTsEvent)
	if err != nil {
		return nil, err
	}
	tsInit, err := m.Int64(FieldTsInit)
	if err != nil {
		return nil, err
	}
	action, err := enumField(m, FieldAction, ParseBookAction)
	if err != nil {
		return nil, err
	}
	side, err := enumField(m, FieldOrderSide, ParseOrderSide)
	if err != nil {
		return nil, err
	}
	price, err := decimalField(m, FieldOrderPrice)
	if err != nil {
		return nil, err
	}
	size, err := decimalField(m, FieldOrderSize)
	if err != nil {
		return nil, err
	}
	orderID, err := m.String(FieldOrderID)
	if err != nil {
		return nil, err
	}
	bookType, err := enumField(m, FieldBookType, ParseBookType)
	if err != nil {
		return nil, err
	}
	v, err := NewIndicativeBookDelta(InstrumentID(instrumentID), action, side, price, size, orderID, bookType, tsEvent, tsInit)
	if err != nil {
		return nil, decodeErr(WireTypeIndicativeBookDelta, err)
	}
	return v, nil
}

type tradeTickCodec struct{}

func (tradeTickCodec) WireType() string { return WireTypeTradeTick }

func (c tradeTickCodec) Encode(v serialization.Serializable) (serialization.Mapping, error) {
	t, err := valueAs[TradeTick](c, v)
	if err != nil {
		return nil, err
	}
	return serialization.Mapping{
		serialization.TypeKey: WireTypeTradeTick,
		FieldInstrumentID:     string(t.InstrumentID),
		FieldTsEvent:          t.TsEvent,
		FieldTsInit:           t.TsInit,
		FieldPrice:            t.Price.String(),
		FieldSize:             t.Size.String(),
		FieldAggressorSide:    t.Aggressor.String(),
		FieldTradeID:          t.TradeID,
	}, nil
}

func (c tradeTickCodec) Decode(m serialization.Mapping) (serialization.Serializable, error) {
	if err := checkTag(m, WireTypeTradeTick); err != nil {
		return nil, err
	}
	instrumentID, err := m.String(FieldInstrumentID)
	if err != nil {
		return nil, err
	}
	tsEvent, err := m.Int64(FieldTsEvent)
	if err != nil {
		return nil, err
	}
	tsInit, err := m.Int64(FieldTsInit)
	if err != nil {
		return nil, err
	}
	price, err := decimalField(m, FieldPrice)
	if err != nil {
		return nil, err
	}
	size, err := decimalField(m, FieldSize)
	if err != nil {
		return nil, err
	}
	aggressor, err := enumField(m, FieldAggressorSide, ParseAggressorSide)
	if err != nil {
		return nil, err
	}
	tradeID, err := m.String(FieldTradeID)
	if err != nil {
		return nil, err
	}
	v, err := NewTradeTick(InstrumentID(instrumentID), price, size, aggressor, tradeID, tsEvent, tsInit)
	if err != nil {
		return nil, decodeErr(WireTypeTradeTick, err)
	}
	return v, nil
}

type instrumentSearchResultCodec struct{}

func (instrumentSearchResultCodec) WireType() string { return WireTypeInstrumentSearchResult }

func (c instrumentSearchResultCodec) Encode(v serialization.Serializable) (serialization.Mapping, error) {
	r, err := valueAs[InstrumentSearchResult](c, v)
	if err != nil {
		return nil, err
	}
	doc, err := json.Marshal(r.Instruments())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", WireTypeInstrumentSearchResult, err)
	}
	return serialization.Mapping{
		serialization.TypeKey: WireTypeInstrumentSearchResult,
		FieldInstruments:      doc,
		FieldTsEvent:          r.TsEvent,
		FieldTsInit:           r.TsInit,
	}, nil
}

func (c instrumentSearchResultCodec) Decode(m serialization.Mapping) (serialization.Serializable, error) {
	if err := checkTag(m, WireTypeInstrumentSearchResult); err != nil {
		return nil, err
	}
	doc, err := m.Doc(FieldInstruments)
	if err != nil {
		return nil, err
	}
	var instruments []InstrumentDescriptor
	if err := json.Unmarshal(doc, &instruments); err != nil {
		return nil, fmt.Errorf("key %q: invalid instrument collection: %w", FieldInstruments, serialization.ErrMalformedWireValue)
	}
	tsEvent, err := m.Int64(FieldTsEvent)
	if err != nil {
		return nil, err
	}
	tsInit, err := m.Int64(FieldTsInit)
	if err != nil {
		return nil, err
	}
	v, err := NewInstrumentSearchResult(instruments, tsEvent, tsInit)
	if err != nil {
		return nil, decodeErr(WireTypeInstrumentSearchResult, err)
	}
	return v, nil
}

func valueAs[T serialization.Serializable](c serialization.Codec, v serialization.Serializable) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("codec for %s given %T: %w", c.WireType(), v, serialization.ErrUnknownType)
	}
	return t, nil
}

func checkTag(m serialization.Mapping, want string) error {
	tag, err := m.Type()
	if err != nil {
		return err
	}
	if tag != want {
		return fmt.Errorf("wire type %q, codec handles %q: %w", tag, want, serialization.ErrUnknownType)
	}
	return nil
}

func decodeErr(wireType string, err error) error {
	return fmt.Errorf("decode %s: %v: %w", wireType, err, serialization.ErrMalformedWireValue)
}

func enumField[T any](m serialization.Mapping, key string, parse func(string) (T, error)) (T, error) {
	var zero T
	s, err := m.String(key)
	if err != nil {
		return zero, err
	}
	v, err := parse(s)
	if err != nil {
		return zero, fmt.Errorf("key %q: %v: %w", key, err, serialization.ErrMalformedWireValue)
	}
	return v, nil
}

func decimalField(m serialization.Mapping, key string) (decimal.Decimal, error) {
	s, err := m.String(key)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("key %q: invalid decimal %q: %w", key, s, serialization.ErrMalformedWireValue)
	}
	return d, nil
}

func nullDecimalField(m serialization.Mapping, key string) (decimal.NullDecimal, error) {
	s, err := m.NullableString(key)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("key %q: invalid decimal %q: %w", key, *s, serialization.ErrMalformedWireValue)
	}
	return decimal.NewNullDecimal(d), nil
}

func nullDecimalWire(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}
