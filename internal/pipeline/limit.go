package pipeline

import (
	"fmt"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// LimitStage keeps the first N rows.
type LimitStage struct {
	N int
}

// NewLimitStage creates a limit stage.
func NewLimitStage(n int) *LimitStage {
	return &LimitStage{N: n}
}

// Name implements Stage.
func (s *LimitStage) Name() string { return StageLimit }

// Apply implements Stage.
func (s *LimitStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if s.N <= 0 || ds.Len() <= s.N {
		return ds, nil
	}
	rows := make([]dataset.Row, s.N)
	for i := range rows {
		rows[i] = ds.Row(i)
	}
	return ds.WithRows(rows), nil
}

// String implements Stage.
func (s *LimitStage) String() string {
	return fmt.Sprintf("limit: %d", s.N)
}
