package correlation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// DefaultChunkSize is the number of rows processed between progress
// reports and cancellation checks.
const DefaultChunkSize = 10000

// ProgressFunc receives the number of rows consumed so far.
type ProgressFunc func(processed int)

// Result describes one streamed correlation.
type Result struct {
	XColumn     string   `json:"x_column"`
	YColumn     string   `json:"y_column"`
	Correlation *float64 `json:"correlation"`
	NPairs      int      `json:"n_pairs"`
	Slope       *float64 `json:"slope"`
	Intercept   *float64 `json:"intercept"`
	XMin        float64  `json:"x_min"`
	XMax        float64  `json:"x_max"`
	YMin        float64  `json:"y_min"`
	YMax        float64  `json:"y_max"`
	Sample      []Point  `json:"sample,omitempty"`
}

type options struct {
	chunkSize int
	progress  ProgressFunc
	sampler   *Reservoir
	logger    *slog.Logger
}

// Option configures Stream.
type Option func(*options)

// WithChunkSize sets the number of rows between progress reports. Values
// below one keep DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithProgress registers a callback invoked after every chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithSampler offers every valid pair to r and copies its sample into the
// result.
func WithSampler(r *Reservoir) Option {
	return func(o *options) {
		o.sampler = r
	}
}

// WithLogger sets the logger used for chunk-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Stream consumes src once and correlates xColumn against yColumn. Each
// value is coerced to a number; rows where either side is not a finite
// number are skipped. Between chunks the context is checked and the
// goroutine yields so long streams stay responsive.
func Stream(ctx context.Context, src Source, xColumn, yColumn string, opts ...Option) (*Result, error) {
	o := options{chunkSize: DefaultChunkSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	calc := NewCalculator(xColumn, yColumn)
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	processed := 0

	for row, err := range src {
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", processed, err)
		}
		processed++

		x, y := row.Get(xColumn).Float(), row.Get(yColumn).Float()
		if calc.Update(x, y) {
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
			yMin, yMax = math.Min(yMin, y), math.Max(yMax, y)
			if o.sampler != nil {
				o.sampler.Offer(x, y)
			}
		}

		if processed%o.chunkSize == 0 {
			if err := endChunk(ctx, &o, processed, calc.N()); err != nil {
				return nil, err
			}
		}
	}
	if processed%o.chunkSize != 0 {
		if err := endChunk(ctx, &o, processed, calc.N()); err != nil {
			return nil, err
		}
	}

	fit, err := calc.Finalize()
	if err != nil {
		return nil, err
	}

	res := &Result{
		XColumn:     xColumn,
		YColumn:     yColumn,
		Correlation: fit.Correlation,
		NPairs:      fit.N,
		Slope:       fit.Slope,
		Intercept:   fit.Intercept,
		XMin:        xMin,
		XMax:        xMax,
		YMin:        yMin,
		YMax:        yMax,
	}
	if o.sampler != nil {
		res.Sample = o.sampler.Points()
	}
	return res, nil
}

func endChunk(ctx context.Context, o *options, processed, pairs int) error {
	if o.progress != nil {
		o.progress(processed)
	}
	o.logger.Debug("correlation chunk processed", "rows", processed, "pairs", pairs)
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}

// Correlate streams the rows of ds.
func Correlate(ctx context.Context, ds *dataset.Dataset, xColumn, yColumn string, opts ...Option) (*Result, error) {
	return Stream(ctx, FromDataset(ds), xColumn, yColumn, opts...)
}
