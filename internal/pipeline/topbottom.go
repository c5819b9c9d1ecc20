package pipeline

import (
	"fmt"
	"math"
	"slices"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// TopBottomStage keeps the Count rows with the highest (top) or lowest
// (bottom) numeric value in Column. Rows that are not numeric rank last in
// both modes; ties keep their input order.
type TopBottomStage struct {
	Request query.TopBottom
}

// NewTopBottomStage creates a top/bottom stage.
func NewTopBottomStage(req query.TopBottom) *TopBottomStage {
	return &TopBottomStage{Request: req}
}

// Name implements Stage.
func (s *TopBottomStage) Name() string { return StageTopBottom }

// Apply implements Stage.
func (s *TopBottomStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	req := s.Request
	if req.Count <= 0 || (req.Mode != query.Top && req.Mode != query.Bottom) {
		return ds, nil
	}

	type ranked struct {
		row dataset.Row
		v   float64
	}
	items := make([]ranked, ds.Len())
	for i := range items {
		row := ds.Row(i)
		items[i] = ranked{row: row, v: row.Get(req.Column).Float()}
	}

	slices.SortStableFunc(items, func(a, b ranked) int {
		aNaN, bNaN := math.IsNaN(a.v), math.IsNaN(b.v)
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		case bNaN:
			return -1
		}
		c := compareFloat(a.v, b.v)
		if req.Mode == query.Top {
			return -c
		}
		return c
	})

	n := min(req.Count, len(items))
	rows := make([]dataset.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = items[i].row
	}
	return ds.WithRows(rows), nil
}

// String implements Stage.
func (s *TopBottomStage) String() string {
	return fmt.Sprintf("%s %d by %s", s.Request.Mode, s.Request.Count, s.Request.Column)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
