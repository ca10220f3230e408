package marketdata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IndicativeBookDelta is one mutation of an instrument's indicative
// (derived, non-tradeable) order book, such as a starting-price ladder.
// Price and size keep the exact decimal the venue reported; the columnar
// layout of this type narrows them to float64, which is lossy and accepted
// for derived books only.
type IndicativeBookDelta struct {
	InstrumentID InstrumentID
	Action       BookAction
	Side         OrderSide
	Price        decimal.Decimal
	Size         decimal.Decimal
	OrderID      string
	BookType     BookType
	TsEvent      int64
	TsInit       int64
}

// NewIndicativeBookDelta constructs a delta. For delete actions price and
// size may be zero-valued placeholders; for all other actions they must be
// non-negative.
func NewIndicativeBookDelta(
	instrumentID InstrumentID,
	action BookAction,
	side OrderSide,
	price decimal.Decimal,
	size decimal.Decimal,
	orderID string,
	bookType BookType,
	tsEvent int64,
	tsInit int64,
) (IndicativeBookDelta, error) {
	if instrumentID == "" {
		return IndicativeBookDelta{}, fmt.Errorf("book delta: empty instrument id")
	}
	if _, err := ParseBookAction(action.String()); err != nil {
		return IndicativeBookDelta{}, fmt.Errorf("book delta: %w", err)
	}
	if _, err := ParseBookType(bookType.String()); err != nil {
		return IndicativeBookDelta{}, fmt.Errorf("book delta: %w", err)
	}
	if action != BookActionDelete {
		if price.IsNegative() {
			return IndicativeBookDelta{}, fmt.Errorf("book delta: negative price %s", price)
		}
		if size.IsNegative() {
			return IndicativeBookDelta{}, fmt.Errorf("book delta: negative size %s", size)
		}
	}
	if err := validateTimestamps(tsEvent, tsInit); err != nil {
		return IndicativeBookDelta{}, fmt.Errorf("book delta: %w", err)
	}
	return IndicativeBookDelta{
		InstrumentID: instrumentID,
		Action:       action,
		Side:         side,
		Price:        price,
		Size:         size,
		OrderID:      orderID,
		BookType:     bookType,
		TsEvent:      tsEvent,
		TsInit:       tsInit,
	}, nil
}

// WireType implements serialization.Serializable.
func (IndicativeBookDelta) WireType() string {
	return WireTypeIndicativeBookDelta
}

// Equal reports structural equality with decimal value comparison.
func (d IndicativeBookDelta) Equal(other IndicativeBookDelta) bool {
	return d.InstrumentID == other.InstrumentID &&
		d.Action == other.Action &&
		d.Side == other.Side &&
		d.Price.Equal(other.Price) &&
		d.Size.Equal(other.Size) &&
		d.OrderID == other.OrderID &&
		d.BookType == other.BookType &&
		d.TsEvent == other.TsEvent &&
		d.TsInit == other.TsInit
}
