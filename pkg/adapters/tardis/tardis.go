// Package tardis converts parsed Tardis machine messages (order book changes
// and snapshots, trades, derivative tickers) into domain values. Converters
// are plain functions: venue decimals are kept exact, timestamps become UNIX
// nanoseconds, and no connectivity lives here.
package tardis

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookLevel is one price level of a venue book message.
type BookLevel struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// BookChangeMessage is an incremental order book update. A zero amount
// removes the level.
type BookChangeMessage struct {
	Symbol         string      `json:"symbol"`
	Exchange       string      `json:"exchange"`
	IsSnapshot     bool        `json:"isSnapshot"`
	Bids           []BookLevel `json:"bids"`
	Asks           []BookLevel `json:"asks"`
	Timestamp      time.Time   `json:"timestamp"`
	LocalTimestamp time.Time   `json:"localTimestamp"`
}

// BookSnapshotMessage is a full fixed-depth book snapshot.
type BookSnapshotMessage struct {
	Symbol         string      `json:"symbol"`
	Exchange       string      `json:"exchange"`
	Depth          int         `json:"depth"`
	Interval       int         `json:"interval"`
	Bids           []BookLevel `json:"bids"`
	Asks           []BookLevel `json:"asks"`
	Timestamp      time.Time   `json:"timestamp"`
	LocalTimestamp time.Time   `json:"localTimestamp"`
}

// TradeMessage is one executed trade. ID is empty when the venue does not
// report trade identifiers.
type TradeMessage struct {
	Symbol         string          `json:"symbol"`
	Exchange       string          `json:"exchange"`
	ID             string          `json:"id"`
	Price          decimal.Decimal `json:"price"`
	Amount         decimal.Decimal `json:"amount"`
	Side           string          `json:"side"`
	Timestamp      time.Time       `json:"timestamp"`
	LocalTimestamp time.Time       `json:"localTimestamp"`
}

// DerivativeTickerMessage is a derivatives instrument ticker. All numeric
// fields are optional; venues publish whichever subset they support.
type DerivativeTickerMessage struct {
	Symbol         string           `json:"symbol"`
	Exchange       string           `json:"exchange"`
	LastPrice      *decimal.Decimal `json:"lastPrice"`
	OpenInterest   *decimal.Decimal `json:"openInterest"`
	FundingRate    *decimal.Decimal `json:"fundingRate"`
	IndexPrice     *decimal.Decimal `json:"indexPrice"`
	MarkPrice      *decimal.Decimal `json:"markPrice"`
	Timestamp      time.Time        `json:"timestamp"`
	LocalTimestamp time.Time        `json:"localTimestamp"`
}
