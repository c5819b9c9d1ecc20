// Package testutil provides shared fixtures and assertions for tests:
//
//   - checked Arrow allocators that fail the test on leaks
//   - a standard sales dataset with optional nulls and extra rows
//   - synthetic bivariate rows for correlation tests
//   - column assertions over datasets
package testutil

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

const (
	// defaultRowCount is the default number of rows in the sales dataset.
	defaultRowCount = 6
)

// TestMemoryContext provides a checked allocator with automatic leak checks.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	cleanup   func()
}

// Release runs the leak check.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a checked allocator whose Release asserts that every
// Arrow buffer was freed.
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	allocator := memory.NewCheckedAllocator(memory.NewGoAllocator())

	return &TestMemoryContext{
		Allocator: allocator,
		cleanup: func() {
			allocator.AssertSize(tb, 0)
		},
	}
}

// SalesOption configures CreateSalesDataset.
type SalesOption func(*salesConfig)

type salesConfig struct {
	includeNulls bool
	rowCount     int
}

// WithNulls blanks the revenue of every third row.
func WithNulls() SalesOption {
	return func(cfg *salesConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows.
func WithRowCount(count int) SalesOption {
	return func(cfg *salesConfig) {
		cfg.rowCount = count
	}
}

// SalesSummary describes the columns of CreateSalesDataset.
func SalesSummary() *dataset.Summary {
	return dataset.NewSummary(
		dataset.ColumnSummary{Name: "date", Kind: dataset.ColumnDate},
		dataset.ColumnSummary{Name: "region", Kind: dataset.ColumnCategorical},
		dataset.ColumnSummary{Name: "product", Kind: dataset.ColumnCategorical},
		dataset.ColumnSummary{Name: "revenue", Kind: dataset.ColumnNumeric},
		dataset.ColumnSummary{Name: "units", Kind: dataset.ColumnNumeric},
	)
}

// CreateSalesDataset returns monthly sales rows starting January 2024.
//
// Default rows:
//
//	date        region  product  revenue  units
//	2024-01-15  North   Soap     "$1,000" 10
//	2024-02-15  South   Oil      2000     20
//	2024-03-15  North   Oil      1500     15
//	2024-04-15  East    Soap     3000     30
//	2024-05-15  South   Soap     2500     25
//	2024-06-15  East    Oil      4000     40
//
// Revenue is stored as formatted text on the first row so coercion is
// exercised. Rows beyond six repeat the pattern in later months.
func CreateSalesDataset(opts ...SalesOption) *dataset.Dataset {
	cfg := &salesConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	regions := []string{"North", "South", "North", "East", "South", "East"}
	products := []string{"Soap", "Oil", "Oil", "Soap", "Soap", "Oil"}
	revenues := []float64{1000, 2000, 1500, 3000, 2500, 4000}

	rows := make([]dataset.Row, cfg.rowCount)
	for i := range cfg.rowCount {
		k := i % len(regions)
		date := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC).AddDate(0, i, 0)
		revenue := dataset.Num(revenues[k])
		if i == 0 {
			revenue = dataset.Text("$1,000")
		}
		if cfg.includeNulls && i%3 == 2 {
			revenue = dataset.Null()
		}
		rows[i] = dataset.Row{
			"date":    dataset.Text(date.Format("2006-01-02")),
			"region":  dataset.Text(regions[k]),
			"product": dataset.Text(products[k]),
			"revenue": revenue,
			"units":   dataset.Num(revenues[k] / 100),
		}
	}
	return dataset.New(rows, SalesSummary())
}

// LinearRows generates n rows with x = 1..n and y = slope*x + intercept.
func LinearRows(n int, slope, intercept float64) []dataset.Row {
	rows := make([]dataset.Row, n)
	for i := range n {
		x := float64(i + 1)
		rows[i] = dataset.Row{
			"x": dataset.Num(x),
			"y": dataset.Num(slope*x + intercept),
		}
	}
	return rows
}

// Floats returns the numeric values of column, NaN where a value does not
// coerce.
func Floats(ds *dataset.Dataset, column string) []float64 {
	values := ds.Column(column)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Float()
	}
	return out
}

// Strings returns the text form of column.
func Strings(ds *dataset.Dataset, column string) []string {
	values := ds.Column(column)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// AssertFloats checks a numeric column within delta. A NaN in expected
// requires a null or non-numeric value.
func AssertFloats(t *testing.T, ds *dataset.Dataset, column string, expected []float64, delta float64) {
	t.Helper()

	got := Floats(ds, column)
	require.Len(t, got, len(expected), "column %s length", column)
	for i := range expected {
		if math.IsNaN(expected[i]) {
			assert.True(t, math.IsNaN(got[i]), "column %s row %d: expected null, got %v", column, i, got[i])
			continue
		}
		assert.InDelta(t, expected[i], got[i], delta, "column %s row %d", column, i)
	}
}

// AssertColumns verifies that every row of ds has the given columns.
func AssertColumns(t *testing.T, ds *dataset.Dataset, columns ...string) {
	t.Helper()

	require.NotNil(t, ds, "dataset should not be nil")
	for i := 0; i < ds.Len(); i++ {
		for _, col := range columns {
			_, ok := ds.Row(i)[col]
			assert.True(t, ok, fmt.Sprintf("row %d should have column %s", i, col))
		}
	}
}
