package dataops

import (
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/config"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// PreviewResult is the head of a dataset.
type PreviewResult struct {
	Rows         []dataset.Row `json:"data"`
	TotalRows    int           `json:"total_rows"`
	ReturnedRows int           `json:"returned_rows"`
}

// Preview returns the first limit rows of ds. A non-positive limit uses the
// global configuration's preview limit.
func Preview(ds *dataset.Dataset, limit int) PreviewResult {
	if limit <= 0 {
		limit = config.GetGlobalConfig().WithDefaults().PreviewLimit
	}

	rows := ds.Rows()
	n := min(limit, len(rows))
	return PreviewResult{
		Rows:         rows[:n],
		TotalRows:    len(rows),
		ReturnedRows: n,
	}
}
