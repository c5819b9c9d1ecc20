// Package pipeline implements the filter, aggregate and ordering stages that
// turn a query descriptor and a dataset into the answer dataset.
//
// Stages are applied in a fixed order regardless of how the descriptor lists
// them:
//
//	time filters → value filters → exclusion filters → aggregation →
//	top/bottom → sort → limit
//
// Every stage consumes one dataset snapshot and returns a new one; rows are
// never modified in place, so any prefix of the pipeline can be replayed on
// its own.
package pipeline

import (
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// Stage is a single step of the pipeline.
type Stage interface {
	// Apply derives a new dataset from ds. Empty results are not errors.
	Apply(ds *dataset.Dataset) (*dataset.Dataset, error)
	// Name is the stage kind used for metrics and logs.
	Name() string
	// String describes the configured step for the trace.
	String() string
}

// Describer is implemented by stages whose trace entry depends on the input
// they ran against, such as a value filter resolving "mean" to a number.
type Describer interface {
	Describe(in *dataset.Dataset) string
}

// Stage names.
const (
	StageTimeFilter      = "timeFilter"
	StageValueFilter     = "valueFilter"
	StageExclusionFilter = "exclusionFilter"
	StageAggregate       = "aggregate"
	StageTopBottom       = "topBottom"
	StageSort            = "sort"
	StageLimit           = "limit"
)

// isFilter reports whether a stage only removes rows.
func isFilter(s Stage) bool {
	switch s.Name() {
	case StageTimeFilter, StageValueFilter, StageExclusionFilter:
		return true
	}
	return false
}

// keepRows returns a dataset holding the rows of ds for which keep is true.
func keepRows(ds *dataset.Dataset, keep func(dataset.Row) bool) *dataset.Dataset {
	rows := make([]dataset.Row, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return ds.WithRows(rows)
}
