// Package query defines the structured query descriptor produced upstream for
// every user question. A Descriptor is built once and never modified; the
// pipeline stages read it and derive new datasets.
package query

import (
	"fmt"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// Operator is a value-filter comparison.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpBetween      Operator = "between"
)

// Valid reports whether the operator is one the value filter understands.
func (o Operator) Valid() bool {
	switch o {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpEqual, OpNotEqual, OpBetween:
		return true
	}
	return false
}

// Reference names a statistic resolved against the filter stage's input.
type Reference string

const (
	RefNone   Reference = ""
	RefMean   Reference = "mean"
	RefMedian Reference = "median"
	RefP25    Reference = "p25"
	RefP75    Reference = "p75"
	RefMin    Reference = "min"
	RefMax    Reference = "max"
)

// Valid reports whether the reference is a known statistic.
func (r Reference) Valid() bool {
	switch r {
	case RefMean, RefMedian, RefP25, RefP75, RefMin, RefMax:
		return true
	}
	return false
}

// ValueFilter compares a column against either a literal (Value, and Value2
// for between) or a statistical Reference.
type ValueFilter struct {
	Column    string
	Operator  Operator
	Value     float64
	Value2    float64
	Reference Reference
}

// HasReference reports whether the comparison operand is computed from data.
func (f ValueFilter) HasReference() bool {
	return f.Reference != RefNone
}

// BypassesRange reports the between+reference combination. The range test is
// skipped entirely for it and every numeric row passes; downstream consumers
// rely on this, so it is kept and made visible here rather than fixed.
func (f ValueFilter) BypassesRange() bool {
	return f.Operator == OpBetween && f.HasReference()
}

// ExclusionFilter removes rows whose column equals any of Values exactly.
type ExclusionFilter struct {
	Column string
	Values []dataset.Value
}

// Operation is an aggregation function.
type Operation string

const (
	AggSum           Operation = "sum"
	AggMean          Operation = "mean"
	AggAvg           Operation = "avg"
	AggCount         Operation = "count"
	AggMin           Operation = "min"
	AggMax           Operation = "max"
	AggMedian        Operation = "median"
	AggPercentChange Operation = "percent_change"
)

// Valid reports whether the operation is known.
func (o Operation) Valid() bool {
	switch o {
	case AggSum, AggMean, AggAvg, AggCount, AggMin, AggMax, AggMedian, AggPercentChange:
		return true
	}
	return false
}

// Aggregation requests one per-group statistic.
type Aggregation struct {
	Column    string
	Operation Operation
	Alias     string
}

// OutputName is the alias, or "<column>_<operation>" when none is set.
func (a Aggregation) OutputName() string {
	if a.Alias != "" {
		return a.Alias
	}
	return fmt.Sprintf("%s_%s", a.Column, a.Operation)
}

// DatePeriod is the granularity date group keys are normalized to.
type DatePeriod string

const (
	PeriodNone      DatePeriod = ""
	PeriodDay       DatePeriod = "day"
	PeriodMonth     DatePeriod = "month"
	PeriodMonthOnly DatePeriod = "monthOnly"
	PeriodQuarter   DatePeriod = "quarter"
	PeriodYear      DatePeriod = "year"
)

// Valid reports whether the period is a known granularity.
func (p DatePeriod) Valid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodMonthOnly, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// SortDirection orders a sort key.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortKey is one key of a multi-key sort.
type SortKey struct {
	Column    string
	Direction SortDirection
}

// TopBottomMode selects the highest or lowest rows.
type TopBottomMode string

const (
	Top    TopBottomMode = "top"
	Bottom TopBottomMode = "bottom"
)

// TopBottom keeps the Count highest (top) or lowest (bottom) rows by Column.
type TopBottom struct {
	Mode   TopBottomMode
	Column string
	Count  int
}

// Descriptor is the immutable, already-sanitized description of one query.
type Descriptor struct {
	TimeFilters      []TimeFilter
	ValueFilters     []ValueFilter
	ExclusionFilters []ExclusionFilter
	GroupBy          []string
	Aggregations     []Aggregation
	DatePeriod       DatePeriod
	Sort             []SortKey
	TopBottom        *TopBottom
	Limit            int
}

// WantsAggregation reports whether both groupBy and aggregations are present.
// Anything else is a deliberate no-op for the aggregation stage.
func (d *Descriptor) WantsAggregation() bool {
	return len(d.GroupBy) > 0 && len(d.Aggregations) > 0
}
