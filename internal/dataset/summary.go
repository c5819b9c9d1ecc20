package dataset

import (
	"fmt"
	"math"
)

// ColumnKind classifies a column for the stages that need to find dates.
type ColumnKind int

const (
	ColumnCategorical ColumnKind = iota
	ColumnNumeric
	ColumnDate
)

// String returns the kind name used in JSON and logs.
func (k ColumnKind) String() string {
	switch k {
	case ColumnNumeric:
		return "numeric"
	case ColumnDate:
		return "date"
	default:
		return "categorical"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ColumnKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "numeric":
		*k = ColumnNumeric
	case "date":
		*k = ColumnDate
	case "categorical", "":
		*k = ColumnCategorical
	default:
		return fmt.Errorf("unknown column kind %q", text)
	}
	return nil
}

// ColumnSummary describes one column. The statistics are nil when the column
// has no numeric values.
type ColumnSummary struct {
	Name          string      `json:"variable"`
	Kind          ColumnKind  `json:"kind"`
	TotalValues   int         `json:"total_values"`
	NullValues    int         `json:"null_values"`
	NonNullValues int         `json:"non_null_values"`
	Mean          *float64    `json:"mean"`
	Median        *float64    `json:"median"`
	StdDev        *float64    `json:"std_dev"`
	Min           *float64    `json:"min"`
	Max           *float64    `json:"max"`
	Mode          interface{} `json:"mode"`
}

// Summary is the externally supplied description of a dataset's columns.
// Column order matters: the first date column is the implicit date column.
type Summary struct {
	Columns []ColumnSummary `json:"summary"`
}

// NewSummary builds a bare summary from column kinds in order.
func NewSummary(columns ...ColumnSummary) *Summary {
	return &Summary{Columns: columns}
}

// Column returns the summary for name.
func (s *Summary) Column(name string) (ColumnSummary, bool) {
	if s == nil {
		return ColumnSummary{}, false
	}
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// DateColumns returns the date columns in schema order.
func (s *Summary) DateColumns() []string {
	return s.columnsOfKind(ColumnDate)
}

// NumericColumns returns the numeric columns in schema order.
func (s *Summary) NumericColumns() []string {
	return s.columnsOfKind(ColumnNumeric)
}

// IsDate reports whether name is a recognized date column.
func (s *Summary) IsDate(name string) bool {
	c, ok := s.Column(name)
	return ok && c.Kind == ColumnDate
}

// FirstDateColumn returns the implicit date column.
func (s *Summary) FirstDateColumn() (string, bool) {
	cols := s.DateColumns()
	if len(cols) == 0 {
		return "", false
	}
	return cols[0], true
}

// Validate checks a row against the summary: every numeric column must hold a
// number-coercible value or null, every date column a parseable date or null.
func (s *Summary) Validate(row Row) error {
	if s == nil {
		return nil
	}
	for _, c := range s.Columns {
		v := row.Get(c.Name)
		if v.IsNull() {
			continue
		}
		switch c.Kind {
		case ColumnNumeric:
			if _, isNum := numberOf(v); !isNum {
				return fmt.Errorf("column %q: value %q is not numeric", c.Name, v.String())
			}
		case ColumnDate:
			if _, ok := v.Date(); !ok {
				return fmt.Errorf("column %q: value %q is not a date", c.Name, v.String())
			}
		}
	}
	return nil
}

func (s *Summary) columnsOfKind(kind ColumnKind) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, c := range s.Columns {
		if c.Kind == kind {
			out = append(out, c.Name)
		}
	}
	return out
}

func numberOf(v Value) (float64, bool) {
	f := v.Float()
	return f, !math.IsNaN(f)
}
