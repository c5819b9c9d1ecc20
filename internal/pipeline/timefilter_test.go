package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/pipeline"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/testutil"
)

func applyTime(t *testing.T, ds *dataset.Dataset, f query.TimeFilter) *dataset.Dataset {
	t.Helper()
	out, err := pipeline.NewTimeFilterStage(f).Apply(ds)
	require.NoError(t, err)
	return out
}

func TestTimeFilterStage_Variants(t *testing.T) {
	ds := testutil.CreateSalesDataset()

	tests := []struct {
		name     string
		filter   query.TimeFilter
		expected []string
	}{
		{
			name:     "year",
			filter:   query.YearFilter{Years: []int{2024}},
			expected: []string{"2024-01-15", "2024-02-15", "2024-03-15", "2024-04-15", "2024-05-15", "2024-06-15"},
		},
		{
			name:     "year without match",
			filter:   query.YearFilter{Years: []int{2023}},
			expected: []string{},
		},
		{
			name:     "plain month names",
			filter:   query.MonthFilter{Months: []string{"April", "jun"}},
			expected: []string{"2024-04-15", "2024-06-15"},
		},
		{
			name:     "combined month and year",
			filter:   query.MonthFilter{Months: []string{"Apr-24"}},
			expected: []string{"2024-04-15"},
		},
		{
			name:     "combined month with other year",
			filter:   query.MonthFilter{Months: []string{"Apr-23"}},
			expected: []string{},
		},
		{
			name:     "quarter",
			filter:   query.QuarterFilter{Quarters: []int{2}},
			expected: []string{"2024-04-15", "2024-05-15", "2024-06-15"},
		},
		{
			name:     "date range",
			filter:   query.DateRangeFilter{Start: "2024-02-15", End: "2024-03-15"},
			expected: []string{"2024-02-15", "2024-03-15"},
		},
		{
			name:     "open ended date range",
			filter:   query.DateRangeFilter{Start: "2024-05-01"},
			expected: []string{"2024-05-15", "2024-06-15"},
		},
		{
			name:     "relative past",
			filter:   query.RelativeFilter{Unit: query.UnitMonth, Direction: query.Past, Amount: 2},
			expected: []string{"2024-04-15", "2024-05-15", "2024-06-15"},
		},
		{
			name:     "relative past weeks",
			filter:   query.RelativeFilter{Unit: query.UnitWeek, Direction: query.Past, Amount: 5},
			expected: []string{"2024-05-15", "2024-06-15"},
		},
		{
			name:     "relative future stays at the pivot",
			filter:   query.RelativeFilter{Unit: query.UnitYear, Direction: query.Future, Amount: 1},
			expected: []string{"2024-06-15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := applyTime(t, ds, tt.filter)
			assert.Equal(t, tt.expected, testutil.Strings(out, "date"))
		})
	}
}

func TestTimeFilterStage_InclusiveDateRange(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"when": "2024-03-31T23:59:59"},
		{"when": "2024-04-01T00:00:00"},
		{"when": "2024-04-15T13:45:10"},
		{"when": "2024-04-30T23:59:59"},
		{"when": "2024-05-01T00:00:01"},
	}, dataset.NewSummary(dataset.ColumnSummary{Name: "when", Kind: dataset.ColumnDate}))

	out := applyTime(t, ds, query.DateRangeFilter{Start: "2024-04-01", End: "2024-04-30"})

	assert.Equal(t, []string{
		"2024-04-01T00:00:00",
		"2024-04-15T13:45:10",
		"2024-04-30T23:59:59",
	}, testutil.Strings(out, "when"))
}

func TestTimeFilterStage_DropsUnparseableDates(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"d": "2024-01-10"},
		{"d": "not a date"},
		{"d": nil},
		{"d": 2024},
	}, nil)

	out := applyTime(t, ds, query.YearFilter{Column: "d", Years: []int{2024}})
	assert.Equal(t, []string{"2024-01-10"}, testutil.Strings(out, "d"))
}

func TestTimeFilterStage_NoOps(t *testing.T) {
	t.Run("no date column resolvable", func(t *testing.T) {
		ds := dataset.FromMaps([]map[string]interface{}{{"d": "2024-01-10"}}, nil)
		out := applyTime(t, ds, query.YearFilter{Years: []int{1999}})
		assert.Same(t, ds, out)
	})

	t.Run("no usable month names", func(t *testing.T) {
		ds := testutil.CreateSalesDataset()
		out := applyTime(t, ds, query.MonthFilter{Months: []string{"Smarch"}})
		assert.Same(t, ds, out)
	})

	t.Run("unknown relative unit", func(t *testing.T) {
		ds := testutil.CreateSalesDataset()
		out := applyTime(t, ds, query.RelativeFilter{Unit: "fortnight", Direction: query.Past, Amount: 1})
		assert.Same(t, ds, out)
	})
}

func TestTimeFilterStage_String(t *testing.T) {
	assert.Equal(t, "time filter: date year in [2023, 2024]",
		pipeline.NewTimeFilterStage(query.YearFilter{Years: []int{2023, 2024}}).String())
	assert.Equal(t, "time filter: order_date quarter in [Q1]",
		pipeline.NewTimeFilterStage(query.QuarterFilter{Column: "order_date", Quarters: []int{1}}).String())
	assert.Equal(t, "time filter: date from 2024-04-01 to (open)",
		pipeline.NewTimeFilterStage(query.DateRangeFilter{Start: "2024-04-01"}).String())
}
