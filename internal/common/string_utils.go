package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StringFormatter renders values and stage parameters for trace descriptions.
type StringFormatter struct{}

// NewStringFormatter creates a new StringFormatter instance.
func NewStringFormatter() *StringFormatter {
	return &StringFormatter{}
}

// FormatNumber renders a float without trailing zeros.
func (sf *StringFormatter) FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatList formats a list of items separated by ", ".
func (sf *StringFormatter) FormatList(items []string) string {
	return strings.Join(items, ", ")
}

// FormatComparison formats a comparison such as "total > 20".
// Pattern: column operator operand.
func (sf *StringFormatter) FormatComparison(column, operator, operand string) string {
	return fmt.Sprintf("%s %s %s", column, operator, operand)
}

// FormatRowDelta formats a before/after row count.
func (sf *StringFormatter) FormatRowDelta(before, after int) string {
	return fmt.Sprintf("%d → %d rows", before, after)
}

// FormatSort formats a sort key.
func (sf *StringFormatter) FormatSort(column string, ascending bool) string {
	direction := "asc"
	if !ascending {
		direction = "desc"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

// Stringify renders a cell value the way it is keyed and compared as text.
// Nil renders as the empty string.
func (sf *StringFormatter) Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return sf.FormatNumber(v)
	case float32:
		return sf.FormatNumber(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case decimal.Decimal:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Default formatter instance for convenience.
var defaultFormatter = NewStringFormatter()

// FormatNumber renders a float using the default formatter.
func FormatNumber(v float64) string {
	return defaultFormatter.FormatNumber(v)
}

// FormatList formats a list using the default formatter.
func FormatList(items []string) string {
	return defaultFormatter.FormatList(items)
}

// FormatComparison formats a comparison using the default formatter.
func FormatComparison(column, operator, operand string) string {
	return defaultFormatter.FormatComparison(column, operator, operand)
}

// FormatRowDelta formats a before/after row count using the default formatter.
func FormatRowDelta(before, after int) string {
	return defaultFormatter.FormatRowDelta(before, after)
}

// FormatSort formats a sort key using the default formatter.
func FormatSort(column string, ascending bool) string {
	return defaultFormatter.FormatSort(column, ascending)
}

// Stringify renders a cell value using the default formatter.
func Stringify(value interface{}) string {
	return defaultFormatter.Stringify(value)
}
