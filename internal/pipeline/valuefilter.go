package pipeline

import (
	"fmt"
	"math"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// ValueFilterStage keeps rows whose column compares true against a literal or
// a statistic of the stage input. Rows whose value is not numeric are
// dropped. An unknown operator or reference leaves the input unchanged.
type ValueFilterStage struct {
	Filter query.ValueFilter
}

// NewValueFilterStage creates a value filter stage.
func NewValueFilterStage(f query.ValueFilter) *ValueFilterStage {
	return &ValueFilterStage{Filter: f}
}

// Name implements Stage.
func (s *ValueFilterStage) Name() string { return StageValueFilter }

// Apply implements Stage.
func (s *ValueFilterStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	f := s.Filter
	if !f.Operator.Valid() || (f.HasReference() && !f.Reference.Valid()) {
		return ds, nil
	}

	operand := f.Value
	if f.HasReference() {
		operand = s.ResolveReference(ds)
	}
	test := comparison(f, operand)

	return keepRows(ds, func(row dataset.Row) bool {
		v := row.Get(f.Column).Float()
		return !math.IsNaN(v) && test(v)
	}), nil
}

// ResolveReference computes the filter's reference statistic over the
// numeric values of its column in ds. Rows that do not coerce are left out
// of the statistic. Without a reference, or without numeric values, the
// result is NaN.
func (s *ValueFilterStage) ResolveReference(ds *dataset.Dataset) float64 {
	values := common.Numbers(ds.Column(s.Filter.Column), func(v dataset.Value) interface{} {
		return v.Interface()
	})

	switch s.Filter.Reference {
	case query.RefMean:
		return common.Mean(values)
	case query.RefMedian:
		return common.Median(values)
	case query.RefP25:
		return common.Percentile(values, 0.25)
	case query.RefP75:
		return common.Percentile(values, 0.75)
	case query.RefMin:
		return common.Min(values)
	case query.RefMax:
		return common.Max(values)
	default:
		return math.NaN()
	}
}

// comparison builds the row predicate. between with a reference never
// range-checks; see query.ValueFilter.BypassesRange.
func comparison(f query.ValueFilter, operand float64) func(float64) bool {
	switch f.Operator {
	case query.OpGreater:
		return func(v float64) bool { return v > operand }
	case query.OpGreaterEqual:
		return func(v float64) bool { return v >= operand }
	case query.OpLess:
		return func(v float64) bool { return v < operand }
	case query.OpLessEqual:
		return func(v float64) bool { return v <= operand }
	case query.OpEqual:
		return func(v float64) bool { return v == operand }
	case query.OpNotEqual:
		return func(v float64) bool { return v != operand }
	case query.OpBetween:
		if f.BypassesRange() {
			return func(float64) bool { return true }
		}
		lo, hi := math.Min(f.Value, f.Value2), math.Max(f.Value, f.Value2)
		return func(v float64) bool { return v >= lo && v <= hi }
	default:
		return func(float64) bool { return true }
	}
}

// String implements Stage.
func (s *ValueFilterStage) String() string {
	f := s.Filter
	switch {
	case f.Operator == query.OpBetween && !f.HasReference():
		lo, hi := math.Min(f.Value, f.Value2), math.Max(f.Value, f.Value2)
		return fmt.Sprintf("value filter: %s between %s and %s",
			f.Column, common.FormatNumber(lo), common.FormatNumber(hi))
	case f.HasReference():
		return "value filter: " + common.FormatComparison(f.Column, string(f.Operator), string(f.Reference))
	default:
		return "value filter: " + common.FormatComparison(f.Column, string(f.Operator), common.FormatNumber(f.Value))
	}
}

// Describe implements Describer, adding the resolved reference value.
func (s *ValueFilterStage) Describe(in *dataset.Dataset) string {
	if !s.Filter.HasReference() || !s.Filter.Reference.Valid() {
		return s.String()
	}
	resolved := s.ResolveReference(in)
	if s.Filter.BypassesRange() {
		return fmt.Sprintf("%s (%s = %s, range not applied)", s.String(), s.Filter.Reference, common.FormatNumber(resolved))
	}
	return fmt.Sprintf("%s (%s = %s)", s.String(), s.Filter.Reference, common.FormatNumber(resolved))
}
