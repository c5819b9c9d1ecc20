package correlation_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/correlation"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/testutil"
)

func TestStream_Linear(t *testing.T) {
	res, err := correlation.Stream(t.Context(), correlation.FromRows(testutil.LinearRows(100, 2, 1)), "x", "y")
	require.NoError(t, err)

	assert.Equal(t, 100, res.NPairs)
	assert.InDelta(t, 1.0, *res.Correlation, 1e-9)
	assert.InDelta(t, 2.0, *res.Slope, 1e-9)
	assert.InDelta(t, 1.0, *res.Intercept, 1e-9)
	assert.Equal(t, 1.0, res.XMin)
	assert.Equal(t, 100.0, res.XMax)
	assert.Equal(t, 3.0, res.YMin)
	assert.Equal(t, 201.0, res.YMax)
	assert.Nil(t, res.Sample)
}

func TestStream_SkipsInvalidRows(t *testing.T) {
	rows := testutil.LinearRows(4, 1, 0)
	rows = append(rows,
		dataset.Row{"x": dataset.Text("n/a"), "y": dataset.Num(5)},
		dataset.Row{"x": dataset.Num(6)},
		dataset.Row{"x": dataset.Text("$7"), "y": dataset.Text("7")},
	)

	res, err := correlation.Stream(t.Context(), correlation.FromRows(rows), "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 5, res.NPairs)
	assert.InDelta(t, 1.0, *res.Correlation, 1e-12)
	assert.Equal(t, 7.0, res.XMax)
}

func TestStream_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	rows := make([]dataset.Row, 200)
	for i := range rows {
		x := rng.Float64() * 100
		rows[i] = dataset.Row{"x": dataset.Num(x), "y": dataset.Num(x*0.5 + rng.NormFloat64()*10)}
	}

	first, err := correlation.Stream(t.Context(), correlation.FromRows(rows), "x", "y")
	require.NoError(t, err)

	shuffled := append([]dataset.Row(nil), rows...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	second, err := correlation.Stream(t.Context(), correlation.FromRows(shuffled), "x", "y")
	require.NoError(t, err)

	assert.InDelta(t, *first.Correlation, *second.Correlation, 1e-9)
	assert.InDelta(t, *first.Slope, *second.Slope, 1e-9)
}

func TestStream_InsufficientData(t *testing.T) {
	rows := []dataset.Row{
		{"x": dataset.Num(1), "y": dataset.Num(2)},
		{"x": dataset.Text("abc"), "y": dataset.Num(3)},
	}

	_, err := correlation.Stream(t.Context(), correlation.FromRows(rows), "x", "y")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInsufficientData)
}

func TestStream_SampleOfLargeStream(t *testing.T) {
	sampler := correlation.NewSeededReservoir(2000, 11)
	res, err := correlation.Stream(t.Context(), correlation.FromRows(testutil.LinearRows(10000, 2, 1)), "x", "y",
		correlation.WithSampler(sampler))
	require.NoError(t, err)

	require.Len(t, res.Sample, 2000)
	assert.Equal(t, 10000, sampler.Seen())

	distinct := make(map[correlation.Point]struct{}, len(res.Sample))
	for _, p := range res.Sample {
		distinct[p] = struct{}{}
		assert.Equal(t, 2*p.X+1, p.Y)
	}
	assert.Len(t, distinct, 2000)
}

func TestStream_Progress(t *testing.T) {
	var reports []int
	_, err := correlation.Stream(t.Context(), correlation.FromRows(testutil.LinearRows(25, 1, 0)), "x", "y",
		correlation.WithChunkSize(10),
		correlation.WithProgress(func(n int) { reports = append(reports, n) }))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 25}, reports)

	reports = nil
	_, err = correlation.Stream(t.Context(), correlation.FromRows(testutil.LinearRows(20, 1, 0)), "x", "y",
		correlation.WithChunkSize(10),
		correlation.WithProgress(func(n int) { reports = append(reports, n) }))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, reports)
}

func TestStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0

	_, err := correlation.Stream(ctx, correlation.FromRows(testutil.LinearRows(100, 1, 0)), "x", "y",
		correlation.WithChunkSize(10),
		correlation.WithProgress(func(int) {
			calls++
			cancel()
		}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStream_LogsChunks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := correlation.Stream(t.Context(), correlation.FromRows(testutil.LinearRows(5, 1, 0)), "x", "y",
		correlation.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "correlation chunk processed")
	assert.Contains(t, buf.String(), "rows=5")
}

func TestStream_SourceError(t *testing.T) {
	failing := func(yield func(dataset.Row, error) bool) {
		if !yield(dataset.Row{"x": dataset.Num(1), "y": dataset.Num(1)}, nil) {
			return
		}
		yield(nil, fmt.Errorf("disk gone"))
	}

	_, err := correlation.Stream(t.Context(), failing, "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Contains(t, err.Error(), "reading row 1")
}

func TestFromChannel(t *testing.T) {
	ch := make(chan dataset.Row)
	go func() {
		defer close(ch)
		for _, row := range testutil.LinearRows(50, 3, -2) {
			ch <- row
		}
	}()

	res, err := correlation.Stream(t.Context(), correlation.FromChannel(t.Context(), ch), "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 50, res.NPairs)
	assert.InDelta(t, 3.0, *res.Slope, 1e-9)
	assert.InDelta(t, -2.0, *res.Intercept, 1e-9)
}

func TestFromChannel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := correlation.Stream(t.Context(), correlation.FromChannel(ctx, make(chan dataset.Row)), "x", "y")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromRecordReader(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Float64},
		{Name: "y", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)

	var records []arrow.Record
	for batch := 0; batch < 3; batch++ {
		b := array.NewRecordBuilder(mem.Allocator, schema)
		for i := 1; i <= 4; i++ {
			x := float64(batch*4 + i)
			b.Field(0).(*array.Float64Builder).Append(x)
			b.Field(1).(*array.Int64Builder).Append(int64(2*x + 1))
		}
		b.Field(0).(*array.Float64Builder).Append(99)
		b.Field(1).(*array.Int64Builder).AppendNull()
		records = append(records, b.NewRecord())
		b.Release()
	}

	rdr, err := array.NewRecordReader(schema, records)
	require.NoError(t, err)
	for _, rec := range records {
		rec.Release()
	}

	res, err := correlation.Stream(t.Context(), correlation.FromRecordReader(rdr), "x", "y")
	rdr.Release()
	require.NoError(t, err)

	assert.Equal(t, 12, res.NPairs)
	assert.InDelta(t, 1.0, *res.Correlation, 1e-9)
	assert.Equal(t, 12.0, res.XMax)
}
