package tardis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/halcyonmkt/marketdata-commons/pkg/marketdata"
)

// InstrumentIDFor builds the canonical instrument identifier for a venue
// symbol: uppercased symbol, dot, uppercased exchange code.
func InstrumentIDFor(exchange, symbol string) marketdata.InstrumentID {
	return marketdata.InstrumentID(strings.ToUpper(symbol) + "." + strings.ToUpper(exchange))
}

// ParseBookChange converts an incremental book update into deltas, bids
// before asks. A change flagged as snapshot is handled like
// ParseBookSnapshot.
func ParseBookChange(msg BookChangeMessage) ([]marketdata.IndicativeBookDelta, error) {
	return parseBook(msg.Exchange, msg.Symbol, msg.Bids, msg.Asks, msg.IsSnapshot, msg.Timestamp, msg.LocalTimestamp)
}

// ParseBookSnapshot converts a full book snapshot. The result starts with a
// Clear delta so downstream books reset before the level deltas apply.
func ParseBookSnapshot(msg BookSnapshotMessage) ([]marketdata.IndicativeBookDelta, error) {
	return parseBook(msg.Exchange, msg.Symbol, msg.Bids, msg.Asks, true, msg.Timestamp, msg.LocalTimestamp)
}

// ParseTrade converts a trade. A venue that reports no trade identifier gets
// a locally generated UUID.
func ParseTrade(msg TradeMessage) (marketdata.TradeTick, error) {
	tradeID := msg.ID
	if tradeID == "" {
		tradeID = uuid.NewString()
	}

	trade, err := marketdata.NewTradeTick(
		InstrumentIDFor(msg.Exchange, msg.Symbol),
		msg.Price,
		msg.Amount,
		aggressorSide(msg.Side),
		tradeID,
		msg.Timestamp.UnixNano(),
		msg.LocalTimestamp.UnixNano(),
	)
	if err != nil {
		return marketdata.TradeTick{}, fmt.Errorf("tardis trade %s %s: %w", msg.Exchange, msg.Symbol, err)
	}
	return trade, nil
}

// ParseDerivativeTicker converts a derivative ticker into a ticker snapshot.
// The last price maps onto the snapshot's optional price; open interest,
// funding rate, index and mark price travel in the info document as exact
// decimal strings.
func ParseDerivativeTicker(msg DerivativeTickerMessage) (marketdata.TickerSnapshot, error) {
	var lastPrice decimal.NullDecimal
	if msg.LastPrice != nil {
		lastPrice = decimal.NewNullDecimal(*msg.LastPrice)
	}

	info := make(map[string]any, 4)
	putInfo(info, "open_interest", msg.OpenInterest)
	putInfo(info, "funding_rate", msg.FundingRate)
	putInfo(info, "index_price", msg.IndexPrice)
	putInfo(info, "mark_price", msg.MarkPrice)
	if len(info) == 0 {
		info = nil
	}

	ticker, err := marketdata.NewTickerSnapshot(
		InstrumentIDFor(msg.Exchange, msg.Symbol),
		lastPrice,
		decimal.NullDecimal{},
		info,
		msg.Timestamp.UnixNano(),
		msg.LocalTimestamp.UnixNano(),
	)
	if err != nil {
		return marketdata.TickerSnapshot{}, fmt.Errorf("tardis ticker %s %s: %w", msg.Exchange, msg.Symbol, err)
	}
	return ticker, nil
}

func parseBook(exchange, symbol string, bids, asks []BookLevel, isSnapshot bool, timestamp, localTimestamp time.Time) ([]marketdata.IndicativeBookDelta, error) {
	instrumentID := InstrumentIDFor(exchange, symbol)
	tsEvent := timestamp.UnixNano()
	tsInit := localTimestamp.UnixNano()

	deltas := make([]marketdata.IndicativeBookDelta, 0, len(bids)+len(asks)+1)
	if isSnapshot {
		clearDelta, err := marketdata.NewIndicativeBookDelta(
			instrumentID,
			marketdata.BookActionClear,
			marketdata.NoOrderSide,
			decimal.Decimal{},
			decimal.Decimal{},
			"",
			marketdata.BookTypeL2,
			tsEvent,
			tsInit,
		)
		if err != nil {
			return nil, fmt.Errorf("tardis book %s: %w", instrumentID, err)
		}
		deltas = append(deltas, clearDelta)
	}

	for _, level := range bids {
		delta, err := parseLevel(instrumentID, marketdata.OrderSideBuy, level, isSnapshot, tsEvent, tsInit)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, delta)
	}
	for _, level := range asks {
		delta, err := parseLevel(instrumentID, marketdata.OrderSideSell, level, isSnapshot, tsEvent, tsInit)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, delta)
	}
	return deltas, nil
}

func parseLevel(instrumentID marketdata.InstrumentID, side marketdata.OrderSide, level BookLevel, isSnapshot bool, tsEvent, tsInit int64) (marketdata.IndicativeBookDelta, error) {
	delta, err := marketdata.NewIndicativeBookDelta(
		instrumentID,
		levelAction(isSnapshot, level.Amount),
		side,
		level.Price,
		level.Amount,
		"", // levels are market-by-price, there is no order id
		marketdata.BookTypeL2,
		tsEvent,
		tsInit,
	)
	if err != nil {
		return marketdata.IndicativeBookDelta{}, fmt.Errorf("tardis book %s: %w", instrumentID, err)
	}
	return delta, nil
}

// levelAction follows the venue convention: zero amount removes a level,
// snapshot levels add, everything else updates in place.
func levelAction(isSnapshot bool, amount decimal.Decimal) marketdata.BookAction {
	switch {
	case amount.IsZero():
		return marketdata.BookActionDelete
	case isSnapshot:
		return marketdata.BookActionAdd
	default:
		return marketdata.BookActionUpdate
	}
}

func aggressorSide(side string) marketdata.AggressorSide {
	switch side {
	case "buy":
		return marketdata.AggressorSideBuyer
	case "sell":
		return marketdata.AggressorSideSeller
	default:
		return marketdata.NoAggressor
	}
}

func putInfo(info map[string]any, key string, v *decimal.Decimal) {
	if v != nil {
		info[key] = v.String()
	}
}
