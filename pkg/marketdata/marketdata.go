// Package marketdata holds the domain value types flowing through the
// platform (ticker snapshots, order book deltas, trades, instrument search
// results) together with their wire codecs and columnar schemas. All values
// are immutable by convention: construct once, never mutate.
package marketdata

// Canonical wire type tags. These are the stable identifiers carried in wire
// mappings and columnar schema metadata; they never follow Go type renames.
const (
	WireTypeTickerSnapshot         = "TickerSnapshot"
	WireTypeIndicativeBookDelta    = "IndicativeBookDelta"
	WireTypeTradeTick              = "TradeTick"
	WireTypeInstrumentSearchResult = "InstrumentSearchResult"
)

// InstrumentID identifies one tradeable instrument, globally unique across
// venues (e.g. "BTC-PERP.TARDIS").
type InstrumentID string

func (id InstrumentID) String() string {
	return string(id)
}
