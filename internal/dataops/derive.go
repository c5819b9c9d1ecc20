package dataops

import (
	"slices"
	"strings"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/expr"
)

// DeriveResult reports what DeriveColumn did.
type DeriveResult struct {
	Data       *dataset.Dataset `json:"-"`
	Column     string           `json:"column"`
	Expression string           `json:"expression"`
	NullRows   int              `json:"null_rows"`
}

// DeriveColumn adds or replaces column name with the value of expression on
// every row. The expression combines bracketed column references, numbers,
// + - * / and parentheses, e.g. "[Revenue] - [Cost]". Rows where a
// referenced value is not numeric, or where a division by zero occurs, get
// null. The summary of the returned dataset profiles the new column.
func DeriveColumn(ds *dataset.Dataset, name, expression string) (*DeriveResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidInputError("DeriveColumn", "new column name is required")
	}

	e, err := expr.Parse(expression)
	if err != nil {
		return nil, &errors.PipelineError{Op: "DeriveColumn", Message: err.Error(), Cause: err}
	}
	refs := expr.Columns(e)
	if len(refs) == 0 {
		return nil, errors.NewInvalidInputError("DeriveColumn", "no column references found; use [ColumnName]")
	}

	known := ds.Columns()
	var missing []string
	for _, c := range refs {
		if !slices.Contains(known, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewColumnNotFoundError("DeriveColumn", strings.Join(missing, ", "))
	}

	res := &DeriveResult{Column: name, Expression: e.String()}
	rows := make([]dataset.Row, ds.Len())
	values := make([]dataset.Value, ds.Len())
	for i, row := range ds.Rows() {
		v := expr.Evaluate(e, row)
		if v.IsNull() {
			res.NullRows++
		}
		rows[i] = row.Clone()
		rows[i][name] = v
		values[i] = v
	}

	res.Data = dataset.New(rows, withColumnSummary(ds.Summary(), profile(name, values)))
	return res, nil
}

// withColumnSummary returns a copy of s with col replacing the entry of the
// same name, or appended when there is none.
func withColumnSummary(s *dataset.Summary, col dataset.ColumnSummary) *dataset.Summary {
	var columns []dataset.ColumnSummary
	if s != nil {
		columns = slices.Clone(s.Columns)
	}
	i := slices.IndexFunc(columns, func(c dataset.ColumnSummary) bool { return c.Name == col.Name })
	if i >= 0 {
		columns[i] = col
	} else {
		columns = append(columns, col)
	}
	return &dataset.Summary{Columns: columns}
}
