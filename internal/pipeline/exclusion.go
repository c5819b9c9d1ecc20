package pipeline

import (
	"fmt"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// ExclusionFilterStage drops rows whose column equals one of the excluded
// values. Equality is exact: "100" does not exclude 100.
type ExclusionFilterStage struct {
	Filter query.ExclusionFilter
}

// NewExclusionFilterStage creates an exclusion filter stage.
func NewExclusionFilterStage(f query.ExclusionFilter) *ExclusionFilterStage {
	return &ExclusionFilterStage{Filter: f}
}

// Name implements Stage.
func (s *ExclusionFilterStage) Name() string { return StageExclusionFilter }

// Apply implements Stage.
func (s *ExclusionFilterStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if len(s.Filter.Values) == 0 {
		return ds, nil
	}
	return keepRows(ds, func(row dataset.Row) bool {
		v := row.Get(s.Filter.Column)
		for _, excluded := range s.Filter.Values {
			if v.Equal(excluded) {
				return false
			}
		}
		return true
	}), nil
}

// String implements Stage.
func (s *ExclusionFilterStage) String() string {
	values := make([]string, len(s.Filter.Values))
	for i, v := range s.Filter.Values {
		values[i] = v.String()
	}
	return fmt.Sprintf("exclusion filter: %s not in [%s]", s.Filter.Column, common.FormatList(values))
}
