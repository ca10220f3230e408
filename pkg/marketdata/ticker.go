package marketdata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TickerSnapshot is a point-in-time view of one instrument's trading state.
// Last traded price and traded volume are optional: a venue may publish a
// ticker before any trade has happened. Info carries free-form venue
// auxiliary data and is nil when the venue sent none; nil and an empty
// document are distinct states.
type TickerSnapshot struct {
	InstrumentID    InstrumentID
	LastTradedPrice decimal.NullDecimal
	TradedVolume    decimal.NullDecimal
	Info            map[string]any
	TsEvent         int64
	TsInit          int64
}

// NewTickerSnapshot constructs a snapshot. Absent optionals are expressed as
// invalid NullDecimal and nil info.
func NewTickerSnapshot(
	instrumentID InstrumentID,
	lastTradedPrice decimal.NullDecimal,
	tradedVolume decimal.NullDecimal,
	info map[string]any,
	tsEvent int64,
	tsInit int64,
) (TickerSnapshot, error) {
	if instrumentID == "" {
		return TickerSnapshot{}, fmt.Errorf("ticker snapshot: empty instrument id")
	}
	if err := validateTimestamps(tsEvent, tsInit); err != nil {
		return TickerSnapshot{}, fmt.Errorf("ticker snapshot: %w", err)
	}
	return TickerSnapshot{
		InstrumentID:    instrumentID,
		LastTradedPrice: lastTradedPrice,
		TradedVolume:    tradedVolume,
		Info:            info,
		TsEvent:         tsEvent,
		TsInit:          tsInit,
	}, nil
}

// WireType implements serialization.Serializable.
func (TickerSnapshot) WireType() string {
	return WireTypeTickerSnapshot
}

// Equal reports structural equality. Decimals compare by value, info
// documents compare semantically (key order and integer width ignored).
func (t TickerSnapshot) Equal(other TickerSnapshot) bool {
	return t.InstrumentID == other.InstrumentID &&
		nullDecimalEqual(t.LastTradedPrice, other.LastTradedPrice) &&
		nullDecimalEqual(t.TradedVolume, other.TradedVolume) &&
		docEqual(t.Info, other.Info) &&
		t.TsEvent == other.TsEvent &&
		t.TsInit == other.TsInit
}

func validateTimestamps(tsEvent, tsInit int64) error {
	if tsEvent < 0 {
		return fmt.Errorf("negative ts_event %d", tsEvent)
	}
	if tsInit < 0 {
		return fmt.Errorf("negative ts_init %d", tsInit)
	}
	return nil
}
