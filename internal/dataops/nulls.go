package dataops

import (
	"fmt"
	"slices"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
)

// NullMethod selects how RemoveNulls treats missing values.
type NullMethod string

const (
	// NullDelete drops rows holding a null.
	NullDelete NullMethod = "delete"
	// NullMean fills numeric columns with their mean and other columns with their mode.
	NullMean NullMethod = "mean"
	// NullMedian fills numeric columns with their median and other columns with their mode.
	NullMedian NullMethod = "median"
	// NullMode fills with the most frequent value.
	NullMode NullMethod = "mode"
	// NullCustom fills with a caller supplied value.
	NullCustom NullMethod = "custom"
)

// Valid reports whether m is a known method.
func (m NullMethod) Valid() bool {
	switch m {
	case NullDelete, NullMean, NullMedian, NullMode, NullCustom:
		return true
	}
	return false
}

// NullOptions configures RemoveNulls. An empty Column processes every
// column; an empty Method deletes.
type NullOptions struct {
	Column      string
	Method      NullMethod
	CustomValue dataset.Value
}

// NullResult reports what RemoveNulls did.
type NullResult struct {
	Data         *dataset.Dataset `json:"-"`
	RowsBefore   int              `json:"rows_before"`
	RowsAfter    int              `json:"rows_after"`
	NullsHandled int              `json:"nulls_removed"`
}

// RemoveNulls deletes or imputes nulls. A missing cell counts as null. The
// input dataset is not modified.
func RemoveNulls(ds *dataset.Dataset, opts NullOptions) (*NullResult, error) {
	method := opts.Method
	if method == "" {
		method = NullDelete
	}
	if !method.Valid() {
		return nil, errors.NewInvalidInputError("RemoveNulls", fmt.Sprintf("unknown method %q", method))
	}

	columns := ds.Columns()
	if opts.Column != "" {
		if !slices.Contains(columns, opts.Column) {
			return nil, errors.NewColumnNotFoundError("RemoveNulls", opts.Column)
		}
		columns = []string{opts.Column}
	}

	res := &NullResult{RowsBefore: ds.Len()}
	if method == NullDelete {
		kept := make([]dataset.Row, 0, ds.Len())
		for _, row := range ds.Rows() {
			if !hasNull(row, columns) {
				kept = append(kept, row)
			}
		}
		res.Data = ds.WithRows(kept)
		res.RowsAfter = len(kept)
		res.NullsHandled = res.RowsBefore - res.RowsAfter
		return res, nil
	}

	rows := make([]dataset.Row, ds.Len())
	for i, row := range ds.Rows() {
		rows[i] = row.Clone()
	}
	for _, col := range columns {
		values := ds.Column(col)
		nulls := 0
		for _, v := range values {
			if v.IsNull() {
				nulls++
			}
		}
		if nulls == 0 {
			continue
		}

		fill := fillValue(method, values, opts.CustomValue)
		for _, row := range rows {
			if row.Get(col).IsNull() {
				row[col] = fill
			}
		}
		res.NullsHandled += nulls
	}

	res.Data = ds.WithRows(rows)
	res.RowsAfter = len(rows)
	return res, nil
}

func hasNull(row dataset.Row, columns []string) bool {
	for _, c := range columns {
		if row.Get(c).IsNull() {
			return true
		}
	}
	return false
}

func fillValue(method NullMethod, values []dataset.Value, custom dataset.Value) dataset.Value {
	if method == NullCustom {
		return custom
	}
	if (method == NullMean || method == NullMedian) && inferKind(values) == dataset.ColumnNumeric {
		numbers := common.Numbers(values, dataset.Value.Interface)
		if method == NullMean {
			return dataset.Num(common.Mean(numbers))
		}
		return dataset.Num(common.Median(numbers))
	}
	if m, ok := mode(values); ok {
		return m
	}
	return dataset.Text("")
}
