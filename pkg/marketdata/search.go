package marketdata

import "fmt"

// InstrumentDescriptor is the static metadata of one instrument returned by
// an instrument search against a venue.
type InstrumentDescriptor struct {
	ID             InstrumentID `json:"id"`
	Symbol         string       `json:"symbol"`
	Venue          string       `json:"venue"`
	BaseCurrency   string       `json:"base_currency"`
	QuoteCurrency  string       `json:"quote_currency"`
	PricePrecision uint8        `json:"price_precision"`
	SizePrecision  uint8        `json:"size_precision"`
}

// InstrumentSearchResult is the outcome of one instrument search: an ordered
// collection of descriptors owned exclusively by this value.
type InstrumentSearchResult struct {
	instruments []InstrumentDescriptor
	TsEvent     int64
	TsInit      int64
}

// NewInstrumentSearchResult constructs a search result. The instrument slice
// is copied so later mutation of the source cannot alias into the value. An
// empty result is valid.
func NewInstrumentSearchResult(
	instruments []InstrumentDescriptor,
	tsEvent int64,
	tsInit int64,
) (InstrumentSearchResult, error) {
	if err := validateTimestamps(tsEvent, tsInit); err != nil {
		return InstrumentSearchResult{}, fmt.Errorf("instrument search result: %w", err)
	}
	owned := make([]InstrumentDescriptor, len(instruments))
	copy(owned, instruments)
	return InstrumentSearchResult{
		instruments: owned,
		TsEvent:     tsEvent,
		TsInit:      tsInit,
	}, nil
}

// Instruments returns a copy of the ordered descriptor collection.
func (r InstrumentSearchResult) Instruments() []InstrumentDescriptor {
	out := make([]InstrumentDescriptor, len(r.instruments))
	copy(out, r.instruments)
	return out
}

// NumInstruments returns the collection size.
func (r InstrumentSearchResult) NumInstruments() int {
	return len(r.instruments)
}

// WireType implements serialization.Serializable.
func (InstrumentSearchResult) WireType() string {
	return WireTypeInstrumentSearchResult
}

// Equal reports structural equality including descriptor order.
func (r InstrumentSearchResult) Equal(other InstrumentSearchResult) bool {
	if r.TsEvent != other.TsEvent || r.TsInit != other.TsInit {
		return false
	}
	if len(r.instruments) != len(other.instruments) {
		return false
	}
	for i, d := range r.instruments {
		if other.instruments[i] != d {
			return false
		}
	}
	return true
}
