package pipeline_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/monitoring"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/pipeline"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/testutil"
)

func quietExecutor(opts ...pipeline.Option) *pipeline.Executor {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return pipeline.NewExecutor(append([]pipeline.Option{pipeline.WithLogger(logger)}, opts...)...)
}

func TestExecutor_Plan_FixedOrder(t *testing.T) {
	d := &query.Descriptor{
		Limit:            3,
		Sort:             []query.SortKey{{Column: "revenue_sum", Direction: query.Descending}},
		TopBottom:        &query.TopBottom{Mode: query.Top, Column: "revenue_sum", Count: 5},
		Aggregations:     []query.Aggregation{{Column: "revenue", Operation: query.AggSum}},
		GroupBy:          []string{"region"},
		ExclusionFilters: []query.ExclusionFilter{{Column: "region", Values: []dataset.Value{dataset.Text("East")}}},
		ValueFilters: []query.ValueFilter{
			{Column: "revenue", Operator: query.OpGreater, Value: 0},
			{Column: "units", Operator: query.OpLess, Value: 100},
		},
		TimeFilters: []query.TimeFilter{query.YearFilter{Years: []int{2024}}},
	}

	stages, err := quietExecutor().Plan(d)
	require.NoError(t, err)

	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{
		pipeline.StageTimeFilter,
		pipeline.StageValueFilter,
		pipeline.StageValueFilter,
		pipeline.StageExclusionFilter,
		pipeline.StageAggregate,
		pipeline.StageTopBottom,
		pipeline.StageSort,
		pipeline.StageLimit,
	}, names)
}

func TestExecutor_Execute(t *testing.T) {
	ds := testutil.CreateSalesDataset()
	before := ds.ToMaps()

	d := &query.Descriptor{
		TimeFilters:  []query.TimeFilter{query.QuarterFilter{Quarters: []int{1, 2}}},
		ValueFilters: []query.ValueFilter{{Column: "revenue", Operator: query.OpGreaterEqual, Reference: query.RefMedian}},
		GroupBy:      []string{"region"},
		Aggregations: []query.Aggregation{{Column: "revenue", Operation: query.AggSum, Alias: "total"}},
		Sort:         []query.SortKey{{Column: "total", Direction: query.Descending}},
		Limit:        1,
	}

	result, err := quietExecutor().Execute(t.Context(), ds, d)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.RunID)
	// median revenue is 2250: Apr (East 3000), May (South 2500), Jun (East 4000)
	assert.Equal(t, []string{"East"}, testutil.Strings(result.Data, "region"))
	testutil.AssertFloats(t, result.Data, "total", []float64{7000}, 0)

	require.Len(t, result.Trace, 5)
	assert.Equal(t, "time filter: date quarter in [Q1, Q2] (6 → 6 rows)", result.Trace[0])
	assert.Equal(t, "value filter: revenue >= median (median = 2250) (6 → 3 rows)", result.Trace[1])
	assert.Equal(t, "aggregate: sum(revenue) as total by region (3 → 2 rows)", result.Trace[2])
	assert.Equal(t, "sort: total desc (2 → 2 rows)", result.Trace[3])
	assert.Equal(t, "limit: 1 (2 → 1 rows)", result.Trace[4])

	assert.Equal(t, before, ds.ToMaps(), "input dataset must not change")
}

func TestExecutor_EmptyDescriptorReturnsInput(t *testing.T) {
	ds := testutil.CreateSalesDataset()

	result, err := quietExecutor().Execute(t.Context(), ds, &query.Descriptor{})
	require.NoError(t, err)
	assert.Same(t, ds, result.Data)
	assert.Empty(t, result.Trace)
}

func TestExecutor_InvalidConfiguration(t *testing.T) {
	d := &query.Descriptor{
		GroupBy:      []string{"region"},
		Aggregations: []query.Aggregation{{Operation: query.AggSum}},
	}

	result, err := quietExecutor().Execute(t.Context(), testutil.CreateSalesDataset(), d)
	require.ErrorIs(t, err, errors.ErrInvalidConfiguration)
	assert.Nil(t, result)
}

func TestExecutor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	d := &query.Descriptor{Limit: 1}
	_, err := quietExecutor().Execute(ctx, testutil.CreateSalesDataset(), d)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_LogsEmptyingFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	executor := pipeline.NewExecutor(pipeline.WithLogger(logger))

	d := &query.Descriptor{
		ValueFilters: []query.ValueFilter{{Column: "revenue", Operator: query.OpGreater, Value: 1e9}},
	}
	result, err := executor.Execute(t.Context(), testutil.CreateSalesDataset(), d)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Data.Len())

	logs := buf.String()
	assert.Contains(t, logs, "level=DEBUG msg=\"stage applied\"")
	assert.Contains(t, logs, "level=WARN msg=\"filter removed every row\"")
	assert.Contains(t, logs, "run_id="+result.RunID.String())
}

func TestExecutor_RecordsMetrics(t *testing.T) {
	collector := monitoring.NewMetricsCollector(true)
	executor := quietExecutor(pipeline.WithMetrics(collector))

	d := &query.Descriptor{
		ValueFilters: []query.ValueFilter{{Column: "units", Operator: query.OpGreater, Value: 20}},
		Limit:        1,
	}
	_, err := executor.Execute(t.Context(), testutil.CreateSalesDataset(), d)
	require.NoError(t, err)

	metrics := collector.GetMetrics()
	require.Len(t, metrics, 2)
	assert.Equal(t, pipeline.StageValueFilter, metrics[0].Stage)
	assert.Equal(t, 6, metrics[0].RowsIn)
	assert.Equal(t, 3, metrics[0].RowsOut)
	assert.Equal(t, pipeline.StageLimit, metrics[1].Stage)
	assert.Equal(t, 1, metrics[1].RowsOut)
}

func TestExecutor_Replayable(t *testing.T) {
	ds := testutil.CreateSalesDataset(testutil.WithRowCount(24))
	d := &query.Descriptor{
		ValueFilters: []query.ValueFilter{{Column: "revenue", Operator: query.OpGreater, Reference: query.RefMean}},
		GroupBy:      []string{"date"},
		Aggregations: []query.Aggregation{{Column: "revenue", Operation: query.AggPercentChange}},
		DatePeriod:   query.PeriodQuarter,
	}

	executor := quietExecutor()
	first, err := executor.Execute(t.Context(), ds, d)
	require.NoError(t, err)
	second, err := executor.Execute(t.Context(), ds, d)
	require.NoError(t, err)

	assert.Equal(t, first.Data.ToMaps(), second.Data.ToMaps())
	assert.Equal(t, first.Trace, second.Trace)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.True(t, first.Data.Row(0).Get("revenue_percent_change").IsNull())
}
