package marketdata

import "github.com/halcyonmkt/marketdata-commons/pkg/serialization/columnar"

// Columnar layouts, one per wire type. Exact decimal fields stay string
// columns; only the indicative delta opts into float64 price/size columns.
// The ticker's free-form info travels on the wire but is not stored
// columnar.
var (
	tickerSnapshotSchema = columnar.MustDescriptor(WireTypeTickerSnapshot, []columnar.Field{
		{Name: FieldInstrumentID, Type: columnar.DictString8},
		{Name: FieldTsEvent, Type: columnar.Int64},
		{Name: FieldTsInit, Type: columnar.Int64},
		{Name: FieldLastTradedPrice, Type: columnar.String},
		{Name: FieldTradedVolume, Type: columnar.String},
	})

	indicativeBookDeltaSchema = columnar.MustDescriptor(WireTypeIndicativeBookDelta, []columnar.Field{
		{Name: FieldInstrumentID, Type: columnar.String},
		{Name: FieldTsEvent, Type: columnar.Int64},
		{Name: FieldTsInit, Type: columnar.Int64},
		{Name: FieldAction, Type: columnar.String},
		{Name: FieldOrderSide, Type: columnar.String},
		{Name: FieldOrderPrice, Type: columnar.Float64},
		{Name: FieldOrderSize, Type: columnar.Float64},
		{Name: FieldOrderID, Type: columnar.String},
		{Name: FieldBookType, Type: columnar.String},
	})

	tradeTickSchema = columnar.MustDescriptor(WireTypeTradeTick, []columnar.Field{
		{Name: FieldInstrumentID, Type: columnar.DictString32},
		{Name: FieldTsEvent, Type: columnar.Int64},
		{Name: FieldTsInit, Type: columnar.Int64},
		{Name: FieldPrice, Type: columnar.String},
		{Name: FieldSize, Type: columnar.String},
		{Name: FieldAggressorSide, Type: columnar.DictString8},
		{Name: FieldTradeID, Type: columnar.String},
	})

	instrumentSearchResultSchema = columnar.MustDescriptor(WireTypeInstrumentSearchResult, []columnar.Field{
		{Name: FieldInstruments, Type: columnar.String},
		{Name: FieldTsEvent, Type: columnar.Int64},
		{Name: FieldTsInit, Type: columnar.Int64},
	})
)

// TickerSnapshotSchema returns the ticker columnar layout.
func TickerSnapshotSchema() *columnar.Descriptor { return tickerSnapshotSchema }

// IndicativeBookDeltaSchema returns the indicative delta columnar layout.
func IndicativeBookDeltaSchema() *columnar.Descriptor { return indicativeBookDeltaSchema }

// TradeTickSchema returns the trade tick columnar layout.
func TradeTickSchema() *columnar.Descriptor { return tradeTickSchema }

// InstrumentSearchResultSchema returns the search result columnar layout.
func InstrumentSearchResultSchema() *columnar.Descriptor { return instrumentSearchResultSchema }
