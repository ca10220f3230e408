package marketdata

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}

// docEqual compares free-form documents semantically via their canonical
// JSON form, so json.Number and native integers of the same value compare
// equal. A nil document is absent and never equals an empty one.
func docEqual(a, b map[string]any) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
