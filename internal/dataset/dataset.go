package dataset

import (
	"sort"
)

// Row maps column names to cell values. Rows in one dataset need not share
// the same columns; a missing column reads as null.
type Row map[string]Value

// Get returns the value for column, or null when the row lacks it.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RowFromMap builds a row from native Go values.
func RowFromMap(m map[string]interface{}) Row {
	row := make(Row, len(m))
	for k, v := range m {
		row[k] = Of(v)
	}
	return row
}

// ToMap converts the row back to native Go values.
func (r Row) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for k, v := range r {
		out[k] = v.Interface()
	}
	return out
}

// Dataset is an ordered, immutable sequence of rows together with the
// summary that describes its columns. Stages never mutate a Dataset; they
// derive new ones with WithRows.
type Dataset struct {
	rows    []Row
	summary *Summary
}

// New creates a dataset over rows with an optional column summary.
func New(rows []Row, summary *Summary) *Dataset {
	if rows == nil {
		rows = []Row{}
	}
	return &Dataset{rows: rows, summary: summary}
}

// FromMaps creates a dataset from native Go rows.
func FromMaps(records []map[string]interface{}, summary *Summary) *Dataset {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = RowFromMap(rec)
	}
	return New(rows, summary)
}

// Len returns the number of rows.
func (ds *Dataset) Len() int {
	return len(ds.rows)
}

// Row returns the i-th row.
func (ds *Dataset) Row(i int) Row {
	return ds.rows[i]
}

// Rows returns a copy of the row slice. The rows themselves are shared and
// must be treated as read-only.
func (ds *Dataset) Rows() []Row {
	out := make([]Row, len(ds.rows))
	copy(out, ds.rows)
	return out
}

// Summary returns the column summary, which may be nil.
func (ds *Dataset) Summary() *Summary {
	return ds.summary
}

// WithRows derives a dataset carrying the same summary.
func (ds *Dataset) WithRows(rows []Row) *Dataset {
	return New(rows, ds.summary)
}

// WithSummary derives a dataset over the same rows with a different summary.
func (ds *Dataset) WithSummary(summary *Summary) *Dataset {
	return &Dataset{rows: ds.rows, summary: summary}
}

// Column returns the values of one column in row order.
func (ds *Dataset) Column(name string) []Value {
	out := make([]Value, len(ds.rows))
	for i, row := range ds.rows {
		out[i] = row.Get(name)
	}
	return out
}

// Columns returns column names in summary order when a summary is present,
// followed by any columns the summary does not know, sorted by name.
func (ds *Dataset) Columns() []string {
	seen := make(map[string]bool)
	var names []string
	if ds.summary != nil {
		for _, col := range ds.summary.Columns {
			seen[col.Name] = true
			names = append(names, col.Name)
		}
	}
	var extra []string
	for _, row := range ds.rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// ToMaps converts every row back to native Go values.
func (ds *Dataset) ToMaps() []map[string]interface{} {
	out := make([]map[string]interface{}, len(ds.rows))
	for i, row := range ds.rows {
		out[i] = row.ToMap()
	}
	return out
}
