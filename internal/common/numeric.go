// Package common provides the value coercion and formatting utilities shared by
// every pipeline stage and the correlation calculator. Keeping coercion in one
// place means a filter and an aggregation can never disagree about what
// "$1,200" or "12%" is worth.
package common

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// currencySymbols are stripped from textual numbers before parsing.
const currencySymbols = "$€£¥₹₩₽¢"

// ToNumber coerces a cell value to float64. It returns NaN for anything that
// has no numeric reading: nil, empty or non-numeric text, booleans, times and
// non-finite floats.
func ToNumber(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return math.NaN()
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case decimal.Decimal:
		return finite(v.InexactFloat64())
	case string:
		return ParseNumber(v)
	default:
		return math.NaN()
	}
}

// IsNumeric reports whether value coerces to a finite number.
func IsNumeric(value interface{}) bool {
	return !math.IsNaN(ToNumber(value))
}

// Number is any Go integer or floating-point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Widen converts a slice of any numeric type to float64, mapping infinities
// to NaN so they read as missing.
func Widen[T Number](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = finite(float64(v))
	}
	return out
}

// ParseNumber parses a textual number after removing percent signs, thousands
// separators, currency symbols and surrounding whitespace.
func ParseNumber(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if r == '%' || r == ',' || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return math.NaN()
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return math.NaN()
	}
	return finite(d.InexactFloat64())
}

func finite(f float64) float64 {
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}
