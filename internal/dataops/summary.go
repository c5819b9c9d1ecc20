// Package dataops holds the whole-dataset operations that sit beside the
// query pipeline: column profiling, previews, null handling, derived columns
// and type conversion.
package dataops

import (
	"math"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// Summarize profiles the named columns of ds, or every column when none are
// named. Names that do not occur in ds are skipped. The result can be
// attached to the dataset with WithSummary so that the time filter and
// aggregation stages can find its date columns.
func Summarize(ds *dataset.Dataset, columns ...string) *dataset.Summary {
	known := ds.Columns()
	if len(columns) > 0 {
		present := make(map[string]bool, len(known))
		for _, c := range known {
			present[c] = true
		}
		var selected []string
		for _, c := range columns {
			if present[c] {
				selected = append(selected, c)
			}
		}
		known = selected
	}

	summary := &dataset.Summary{Columns: make([]dataset.ColumnSummary, 0, len(known))}
	for _, name := range known {
		summary.Columns = append(summary.Columns, profile(name, ds.Column(name)))
	}
	return summary
}

func profile(name string, values []dataset.Value) dataset.ColumnSummary {
	col := dataset.ColumnSummary{
		Name:        name,
		Kind:        inferKind(values),
		TotalValues: len(values),
	}

	var numbers []float64
	for _, v := range values {
		if v.IsNull() {
			col.NullValues++
			continue
		}
		if f := v.Float(); !math.IsNaN(f) {
			numbers = append(numbers, f)
		}
	}
	col.NonNullValues = col.TotalValues - col.NullValues

	if col.Kind == dataset.ColumnNumeric && len(numbers) > 0 {
		col.Mean = ptr(common.Mean(numbers))
		col.Median = ptr(common.Median(numbers))
		col.StdDev = ptr(common.StdDev(numbers))
		col.Min = ptr(common.Min(numbers))
		col.Max = ptr(common.Max(numbers))
	}
	if m, ok := mode(values); ok {
		col.Mode = m.Interface()
	}
	return col
}

// inferKind returns numeric when every non-null value coerces to a number,
// date when every non-null value resolves to a date, categorical otherwise.
// A column with no values at all is categorical.
func inferKind(values []dataset.Value) dataset.ColumnKind {
	numeric, date, seen := true, true, false
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		seen = true
		if numeric && math.IsNaN(v.Float()) {
			numeric = false
		}
		if date {
			if _, ok := v.Date(); !ok {
				date = false
			}
		}
		if !numeric && !date {
			break
		}
	}

	switch {
	case !seen:
		return dataset.ColumnCategorical
	case numeric:
		return dataset.ColumnNumeric
	case date:
		return dataset.ColumnDate
	default:
		return dataset.ColumnCategorical
	}
}

type modeKey struct {
	kind dataset.Kind
	text string
}

// mode returns the most frequent non-null value; ties go to the value seen
// first.
func mode(values []dataset.Value) (dataset.Value, bool) {
	counts := make(map[modeKey]int)
	var order []dataset.Value
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		k := modeKey{kind: v.Kind(), text: v.String()}
		if counts[k] == 0 {
			order = append(order, v)
		}
		counts[k]++
	}

	best, bestCount := dataset.Null(), 0
	for _, v := range order {
		if c := counts[modeKey{kind: v.Kind(), text: v.String()}]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best, bestCount > 0
}

func ptr(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}
