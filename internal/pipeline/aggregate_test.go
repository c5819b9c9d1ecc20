package pipeline_test

import (
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/pipeline"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/testutil"
)

func aggregateRows(t *testing.T, ds *dataset.Dataset, groupBy []string, period query.DatePeriod, aggs ...query.Aggregation) *dataset.Dataset {
	t.Helper()
	out, err := pipeline.NewAggregateStage(groupBy, aggs, period).Apply(ds)
	require.NoError(t, err)
	return out
}

func TestAggregateStage_PercentChangeScenario(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"month": "Jan", "revenue": 100},
		{"month": "Feb", "revenue": 200},
		{"month": "Mar", "revenue": 150},
	}, nil)

	out := aggregateRows(t, ds, []string{"month"}, query.PeriodNone,
		query.Aggregation{Column: "revenue", Operation: query.AggPercentChange})

	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, testutil.Strings(out, "month"))
	assert.True(t, out.Row(0).Get("revenue_percent_change").IsNull())
	testutil.AssertFloats(t, out, "revenue_percent_change", []float64{math.NaN(), 100, -25}, 1e-9)
}

func TestAggregateStage_PercentChangeOrdersMonthsByCalendar(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"month": "Mar", "revenue": 150},
		{"month": "Jan", "revenue": 100},
		{"month": "Feb", "revenue": 200},
		{"month": "Jan", "revenue": 300},
	}, nil)

	out := aggregateRows(t, ds, []string{"month"}, query.PeriodNone,
		query.Aggregation{Column: "revenue", Operation: query.AggPercentChange, Alias: "growth"},
		query.Aggregation{Column: "revenue", Operation: query.AggSum})

	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, testutil.Strings(out, "month"))
	// mean of Jan is 200, so Feb is flat even though the Jan sum is 400
	testutil.AssertFloats(t, out, "growth", []float64{math.NaN(), 0, -25}, 1e-9)
	testutil.AssertFloats(t, out, "revenue_sum", []float64{400, 200, 150}, 1e-9)
}

func TestAggregateStage_PercentChangeUndefined(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"g": "a", "v": 0},
		{"g": "b", "v": 10},
		{"g": "c", "v": "n/a"},
		{"g": "d", "v": 5},
	}, nil)

	out := aggregateRows(t, ds, []string{"g"}, query.PeriodNone,
		query.Aggregation{Column: "v", Operation: query.AggPercentChange})

	// a: first, b: previous mean 0, c: no numeric values, d: previous mean undefined
	for i := 0; i < out.Len(); i++ {
		assert.True(t, out.Row(i).Get("v_percent_change").IsNull(), "row %d", i)
	}
}

func TestAggregateStage_PercentChangeFirstGroupIsNull(t *testing.T) {
	for seed := 0; seed < 5; seed++ {
		records := make([]map[string]interface{}, 0, 20)
		for i := 0; i < 20; i++ {
			records = append(records, map[string]interface{}{
				"region": fmt.Sprintf("r%d", (i*7+seed)%4),
				"sales":  float64(i*13%17 + 1),
			})
		}
		out := aggregateRows(t, dataset.FromMaps(records, nil), []string{"region"}, query.PeriodNone,
			query.Aggregation{Column: "sales", Operation: query.AggPercentChange})

		require.Positive(t, out.Len())
		assert.True(t, out.Row(0).Get("sales_percent_change").IsNull(), "seed %d", seed)
	}
}

func TestAggregateStage_Operations(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"team": "red", "pts": 4},
		{"team": "blue", "pts": 10},
		{"team": "red", "pts": "1,000"},
		{"team": "red", "pts": "skip"},
		{"team": "blue", "pts": nil},
		{"team": "red", "pts": 2},
		{"team": "green", "pts": "none"},
	}, nil)

	out := aggregateRows(t, ds, []string{"team"}, query.PeriodNone,
		query.Aggregation{Column: "pts", Operation: query.AggSum},
		query.Aggregation{Column: "pts", Operation: query.AggMean},
		query.Aggregation{Column: "pts", Operation: query.AggAvg, Alias: "average"},
		query.Aggregation{Column: "pts", Operation: query.AggCount},
		query.Aggregation{Column: "pts", Operation: query.AggMin},
		query.Aggregation{Column: "pts", Operation: query.AggMax},
		query.Aggregation{Column: "pts", Operation: query.AggMedian},
	)

	// first-appearance order without a period or percent change
	assert.Equal(t, []string{"red", "blue", "green"}, testutil.Strings(out, "team"))
	testutil.AssertFloats(t, out, "pts_sum", []float64{1006, 10, 0}, 1e-9)
	testutil.AssertFloats(t, out, "pts_mean", []float64{1006.0 / 3, 10, math.NaN()}, 1e-9)
	testutil.AssertFloats(t, out, "average", []float64{1006.0 / 3, 10, math.NaN()}, 1e-9)
	testutil.AssertFloats(t, out, "pts_count", []float64{3, 1, 0}, 0)
	testutil.AssertFloats(t, out, "pts_min", []float64{2, 10, math.NaN()}, 0)
	testutil.AssertFloats(t, out, "pts_max", []float64{1000, 10, math.NaN()}, 0)
	testutil.AssertFloats(t, out, "pts_median", []float64{4, 10, math.NaN()}, 0)

	col, ok := out.Summary().Column("pts_sum")
	require.True(t, ok)
	assert.Equal(t, dataset.ColumnNumeric, col.Kind)
}

func TestAggregateStage_GroupedSumMatchesTotal(t *testing.T) {
	ds := testutil.CreateSalesDataset(testutil.WithRowCount(40), testutil.WithNulls())
	total := common.Sum(common.Numbers(ds.Column("revenue"), func(v dataset.Value) interface{} { return v.Interface() }))

	for _, groupBy := range [][]string{{"region"}, {"product"}, {"region", "product"}} {
		out := aggregateRows(t, ds, groupBy, query.PeriodNone,
			query.Aggregation{Column: "revenue", Operation: query.AggSum})
		assert.InDelta(t, total, common.Sum(testutil.Floats(out, "revenue_sum")), 1e-6, "groupBy %v", groupBy)
	}
}

func TestAggregateStage_DatePeriods(t *testing.T) {
	ds := testutil.CreateSalesDataset(testutil.WithRowCount(15))

	tests := []struct {
		period   query.DatePeriod
		expected []string
	}{
		{query.PeriodYear, []string{"2024", "2025"}},
		{query.PeriodQuarter, []string{"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024", "Q1 2025"}},
		{query.PeriodMonthOnly, []string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			out := aggregateRows(t, ds, []string{"date"}, tt.period,
				query.Aggregation{Column: "units", Operation: query.AggCount})
			assert.Equal(t, tt.expected, testutil.Strings(out, "date"))
			assert.InDelta(t, 15.0, common.Sum(testutil.Floats(out, "units_count")), 0)
		})
	}

	t.Run("month labels in chronological order", func(t *testing.T) {
		shuffled := dataset.New([]dataset.Row{ds.Row(13), ds.Row(2), ds.Row(0), ds.Row(2)}, ds.Summary())
		out := aggregateRows(t, shuffled, []string{"date"}, query.PeriodMonth,
			query.Aggregation{Column: "revenue", Operation: query.AggSum})

		assert.Equal(t, []string{"January 2024", "March 2024", "February 2025"}, testutil.Strings(out, "date"))
		testutil.AssertFloats(t, out, "revenue_sum", []float64{1000, 3000, 2000}, 0)
	})

	t.Run("day keys ignore time of day", func(t *testing.T) {
		days := dataset.FromMaps([]map[string]interface{}{
			{"at": "2024-04-02T18:00:00", "n": 1},
			{"at": "2024-04-01T09:00:00", "n": 2},
			{"at": "2024-04-02T07:30:00", "n": 3},
		}, nil)
		out := aggregateRows(t, days, []string{"at"}, query.PeriodDay,
			query.Aggregation{Column: "n", Operation: query.AggSum})

		assert.Equal(t, []string{"2024-04-01", "2024-04-02"}, testutil.Strings(out, "at"))
		testutil.AssertFloats(t, out, "n_sum", []float64{2, 4}, 0)
	})

	t.Run("period ignored for non-date columns", func(t *testing.T) {
		out := aggregateRows(t, ds, []string{"region"}, query.PeriodMonth,
			query.Aggregation{Column: "units", Operation: query.AggSum})
		assert.ElementsMatch(t, []string{"North", "South", "East"}, testutil.Strings(out, "region"))
	})
}

func TestAggregateStage_CompositeKeysDoNotCollide(t *testing.T) {
	ds := dataset.FromMaps([]map[string]interface{}{
		{"a": "x:1", "b": "y", "v": 1},
		{"a": "x", "b": "1:y", "v": 2},
		{"a": "x:1", "b": "y", "v": 3},
	}, nil)

	out := aggregateRows(t, ds, []string{"a", "b"}, query.PeriodNone,
		query.Aggregation{Column: "v", Operation: query.AggSum})

	require.Equal(t, 2, out.Len())
	testutil.AssertFloats(t, out, "v_sum", []float64{4, 2}, 0)
}

func TestAggregateStage_ManyGroups(t *testing.T) {
	records := make([]map[string]interface{}, 0, 2000)
	for i := 0; i < 2000; i++ {
		records = append(records, map[string]interface{}{"k": fmt.Sprintf("key-%d", i%500), "v": 1})
	}

	out := aggregateRows(t, dataset.FromMaps(records, nil), []string{"k"}, query.PeriodNone,
		query.Aggregation{Column: "v", Operation: query.AggCount})

	require.Equal(t, 500, out.Len())
	assert.Equal(t, "key-0", out.Row(0).Get("k").String())
	for _, c := range testutil.Floats(out, "v_count") {
		assert.InDelta(t, 4.0, c, 0)
	}
}

func TestAggregateStage_NoOpAndErrors(t *testing.T) {
	ds := testutil.CreateSalesDataset()

	t.Run("empty aggregation list is a no-op", func(t *testing.T) {
		out, err := pipeline.NewAggregateStage([]string{"region"}, nil, query.PeriodNone).Apply(ds)
		require.NoError(t, err)
		assert.Same(t, ds, out)
	})

	t.Run("empty groupBy is a no-op", func(t *testing.T) {
		out, err := pipeline.NewAggregateStage(nil, []query.Aggregation{{Column: "revenue", Operation: query.AggSum}}, query.PeriodNone).Apply(ds)
		require.NoError(t, err)
		assert.Same(t, ds, out)
	})

	t.Run("missing column is invalid configuration", func(t *testing.T) {
		_, err := pipeline.NewAggregateStage([]string{"region"}, []query.Aggregation{{Operation: query.AggSum}}, query.PeriodNone).Apply(ds)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidConfiguration))
	})

	t.Run("percent change needs one group column", func(t *testing.T) {
		_, err := pipeline.NewAggregateStage([]string{"region", "product"},
			[]query.Aggregation{{Column: "revenue", Operation: query.AggPercentChange}}, query.PeriodNone).Apply(ds)
		require.ErrorIs(t, err, errors.ErrInvalidConfiguration)
	})

	t.Run("unknown operation produces no column", func(t *testing.T) {
		out := aggregateRows(t, ds, []string{"region"}, query.PeriodNone,
			query.Aggregation{Column: "revenue", Operation: "variance"},
			query.Aggregation{Column: "revenue", Operation: query.AggMax})
		_, ok := out.Row(0)["revenue_variance"]
		assert.False(t, ok)
		testutil.AssertColumns(t, out, "region", "revenue_max")
	})
}

func TestAggregateStage_String(t *testing.T) {
	stage := pipeline.NewAggregateStage([]string{"date"}, []query.Aggregation{
		{Column: "revenue", Operation: query.AggSum},
		{Column: "revenue", Operation: query.AggPercentChange, Alias: "growth"},
	}, query.PeriodMonth)

	assert.Equal(t, "aggregate: sum(revenue) as revenue_sum, percent_change(revenue) as growth by date per month", stage.String())
}
