// Package dataset defines the in-memory tabular model consumed and produced by
// the pipeline: tagged cell values, rows keyed by column name, ordered datasets
// and the column summary that classifies columns as numeric, date or
// categorical.
package dataset

import (
	"math"
	"time"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/shopspring/decimal"
)

// Kind identifies which member of the Value union is set.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a single cell: null, a number, text (possibly date-like), or an instant.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Num creates a number value. NaN and infinities become null.
func Num(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Null()
	}
	return Value{kind: KindNumber, num: v}
}

// Text creates a text value.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Time creates an instant value.
func Time(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Of converts a native Go value into a Value. Integers, floats and decimals
// become numbers, strings stay text, time.Time becomes an instant and nil
// becomes null. Anything else is kept as its text rendering.
func Of(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return Text(x)
	case time.Time:
		return Time(x)
	case decimal.Decimal:
		return Num(x.InexactFloat64())
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Num(common.ToNumber(x))
	default:
		return Text(common.Stringify(x))
	}
}

// Kind returns the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true for the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Interface returns the underlying Go value: nil, float64, string or time.Time.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.str
	case KindTime:
		return v.ts
	default:
		return nil
	}
}

// Float coerces the value through common.ToNumber; NaN means not numeric.
func (v Value) Float() float64 {
	return common.ToNumber(v.Interface())
}

// Date resolves the value to an instant through common.ParseDate.
func (v Value) Date() (time.Time, bool) {
	return common.ParseDate(v.Interface())
}

// String renders the value as text; null renders as "".
func (v Value) String() string {
	return common.Stringify(v.Interface())
}

// Equal reports value equality without coercion: kinds must match.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num == other.num
	case KindText:
		return v.str == other.str
	case KindTime:
		return v.ts.Equal(other.ts)
	default:
		return false
	}
}
