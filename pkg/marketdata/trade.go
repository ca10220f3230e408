package marketdata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TradeTick is one executed trade reported by a venue.
type TradeTick struct {
	InstrumentID InstrumentID
	Price        decimal.Decimal
	Size         decimal.Decimal
	Aggressor    AggressorSide
	TradeID      string
	TsEvent      int64
	TsInit       int64
}

// NewTradeTick constructs a trade tick. TradeID is the venue-reported trade
// identifier, or a locally generated UUID when the venue does not provide
// one.
func NewTradeTick(
	instrumentID InstrumentID,
	price decimal.Decimal,
	size decimal.Decimal,
	aggressor AggressorSide,
	tradeID string,
	tsEvent int64,
	tsInit int64,
) (TradeTick, error) {
	if instrumentID == "" {
		return TradeTick{}, fmt.Errorf("trade tick: empty instrument id")
	}
	if tradeID == "" {
		return TradeTick{}, fmt.Errorf("trade tick: empty trade id")
	}
	if price.IsNegative() {
		return TradeTick{}, fmt.Errorf("trade tick: negative price %s", price)
	}
	if !size.IsPositive() {
		return TradeTick{}, fmt.Errorf("trade tick: non-positive size %s", size)
	}
	if err := validateTimestamps(tsEvent, tsInit); err != nil {
		return TradeTick{}, fmt.Errorf("trade tick: %w", err)
	}
	return TradeTick{
		InstrumentID: instrumentID,
		Price:        price,
		Size:         size,
		Aggressor:    aggressor,
		TradeID:      tradeID,
		TsEvent:      tsEvent,
		TsInit:       tsInit,
	}, nil
}

// WireType implements serialization.Serializable.
func (TradeTick) WireType() string {
	return WireTypeTradeTick
}

// Equal reports structural equality with decimal value comparison.
func (t TradeTick) Equal(other TradeTick) bool {
	return t.InstrumentID == other.InstrumentID &&
		t.Price.Equal(other.Price) &&
		t.Size.Equal(other.Size) &&
		t.Aggressor == other.Aggressor &&
		t.TradeID == other.TradeID &&
		t.TsEvent == other.TsEvent &&
		t.TsInit == other.TsInit
}
