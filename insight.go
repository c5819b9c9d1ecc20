// Package insight runs analysis queries over tabular rows: time, value and
// exclusion filters, grouped aggregation with period-over-period change,
// top/bottom selection, sorting and limiting, plus streaming Pearson
// correlation with a bounded scatter sample.
//
// This package is the public API. A typical run:
//
//	ds := insight.FromMaps(records, nil)
//	ds = ds.WithSummary(insight.Summarize(ds))
//	q, err := insight.ParseDescriptor(body)
//	if err != nil { ... }
//	res, err := insight.Execute(ctx, ds, q)
//	for _, step := range res.Trace { fmt.Println(step) }
//
// Correlation consumes rows once in constant memory:
//
//	r, err := insight.Correlate(ctx, ds, "spend", "revenue",
//		insight.WithSampler(insight.NewReservoir(2000, 0)))
package insight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/text/language"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/config"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/correlation"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataops"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/logging"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/monitoring"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/pipeline"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// Data types.
type (
	Value         = dataset.Value
	Row           = dataset.Row
	Dataset       = dataset.Dataset
	Summary       = dataset.Summary
	ColumnSummary = dataset.ColumnSummary
	ColumnKind    = dataset.ColumnKind
)

// Query and pipeline types.
type (
	Descriptor     = query.Descriptor
	Result         = pipeline.Result
	Executor       = pipeline.Executor
	ExecutorOption = pipeline.Option
	Stage          = pipeline.Stage
)

// Correlation types.
type (
	CorrelationResult = correlation.Result
	CorrelationOption = correlation.Option
	CorrelationPair   = correlation.Pair
	RowSource         = correlation.Source
	Reservoir         = correlation.Reservoir
	Point             = correlation.Point
)

// Data operation types.
type (
	PreviewResult = dataops.PreviewResult
	NullOptions   = dataops.NullOptions
	NullResult    = dataops.NullResult
	NullMethod    = dataops.NullMethod
	DeriveResult  = dataops.DeriveResult
	TargetType    = dataops.TargetType
	Conversion    = dataops.ConversionResult
)

// Monitoring types.
type (
	StageMetric    = monitoring.StageMetrics
	MetricsSummary = monitoring.MetricsSummary
)

// Conversion targets.
const (
	TypeNumeric    = dataops.TypeNumeric
	TypeString     = dataops.TypeString
	TypeDate       = dataops.TypeDate
	TypePercentage = dataops.TypePercentage
	TypeBoolean    = dataops.TypeBoolean
)

// Column kinds.
const (
	ColumnCategorical = dataset.ColumnCategorical
	ColumnNumeric     = dataset.ColumnNumeric
	ColumnDate        = dataset.ColumnDate
)

// Sentinel errors, testable with errors.Is.
var (
	ErrInvalidConfiguration = errors.ErrInvalidConfiguration
	ErrInsufficientData     = errors.ErrInsufficientData
)

// Value constructors.
var (
	Null = dataset.Null
	Num  = dataset.Num
	Text = dataset.Text
	Time = dataset.Time
	Of   = dataset.Of
)

// Executor options.
var (
	WithLogger    = pipeline.WithLogger
	WithMetrics   = pipeline.WithMetrics
	WithCollation = pipeline.WithCollation
)

// Correlation options.
var (
	WithChunkSize = correlation.WithChunkSize
	WithProgress  = correlation.WithProgress
	WithSampler   = correlation.WithSampler
)

// NewDataset creates a dataset from rows and an optional summary.
func NewDataset(rows []Row, summary *Summary) *Dataset {
	return dataset.New(rows, summary)
}

// FromMaps creates a dataset from decoded JSON-like records.
func FromMaps(records []map[string]interface{}, summary *Summary) *Dataset {
	return dataset.FromMaps(records, summary)
}

// FromRecord creates a dataset from an Arrow record batch.
func FromRecord(rec arrow.Record, summary *Summary) (*Dataset, error) {
	return dataset.FromRecord(rec, summary)
}

// ToRecord exports columns of ds (all when none are named) as an Arrow
// record batch. The caller must Release it.
func ToRecord(ds *Dataset, mem memory.Allocator, columns ...string) arrow.Record {
	return dataset.ToRecord(ds, mem, columns...)
}

// ParseDescriptor decodes a JSON query descriptor. Unknown enum values are
// kept as no-op entries rather than rejected.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	return query.Parse(data)
}

// NewExecutor creates a pipeline executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	return pipeline.NewExecutor(opts...)
}

// Configure validates cfg, installs it as the global configuration and turns
// process-wide stage metrics on or off to match metrics_collection.
func Configure(cfg config.Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	monitoring.Configure(cfg.MetricsCollection)
	return nil
}

// NewExecutorFromConfig creates an executor whose logger and collation
// language follow cfg. Stages are recorded on the process-wide collector,
// which metrics_collection switches on. Options in extra are applied last.
func NewExecutorFromConfig(cfg config.Config, extra ...ExecutorOption) (*Executor, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tag, err := language.Parse(cfg.CollationLanguage)
	if err != nil {
		return nil, err
	}
	if cfg.MetricsCollection {
		monitoring.Configure(true)
	}

	opts := []ExecutorOption{
		pipeline.WithLogger(logging.New(cfg)),
		pipeline.WithCollation(tag),
	}
	return pipeline.NewExecutor(append(opts, extra...)...), nil
}

// MetricsEnabled reports whether stage metrics are being collected.
func MetricsEnabled() bool {
	return monitoring.IsGlobalMonitoringEnabled()
}

// CollectedMetrics returns the stage metrics recorded since the last
// ResetMetrics.
func CollectedMetrics() []StageMetric {
	return monitoring.GetGlobalMetrics()
}

// MetricsReport summarizes CollectedMetrics.
func MetricsReport() MetricsSummary {
	return monitoring.GetGlobalSummary()
}

// ResetMetrics discards collected stage metrics.
func ResetMetrics() {
	monitoring.ClearGlobalMetrics()
}

// Execute runs d against ds with an executor built from the global
// configuration.
func Execute(ctx context.Context, ds *Dataset, d *Descriptor) (*Result, error) {
	exec, err := NewExecutorFromConfig(config.GetGlobalConfig())
	if err != nil {
		return nil, err
	}
	return exec.Execute(ctx, ds, d)
}

// Correlate streams the rows of ds through a Pearson calculator. The chunk
// size defaults to the global configuration's correlation_chunk_size.
func Correlate(ctx context.Context, ds *Dataset, xColumn, yColumn string, opts ...CorrelationOption) (*CorrelationResult, error) {
	return CorrelateStream(ctx, correlation.FromDataset(ds), xColumn, yColumn, opts...)
}

// CorrelateStream correlates rows pulled from src.
func CorrelateStream(ctx context.Context, src RowSource, xColumn, yColumn string, opts ...CorrelationOption) (*CorrelationResult, error) {
	cfg := config.GetGlobalConfig().WithDefaults()
	base := []CorrelationOption{
		correlation.WithChunkSize(cfg.CorrelationChunkSize),
		correlation.WithLogger(logging.New(cfg)),
	}
	return correlation.Stream(ctx, src, xColumn, yColumn, append(base, opts...)...)
}

// RowsFromChannel adapts a channel of rows into a correlation source.
func RowsFromChannel(ctx context.Context, ch <-chan Row) RowSource {
	return correlation.FromChannel(ctx, ch)
}

// RowsFromRecordReader adapts an Arrow record reader into a correlation
// source.
func RowsFromRecordReader(rdr array.RecordReader) RowSource {
	return correlation.FromRecordReader(rdr)
}

// CorrelationMatrix correlates every pair of columns on the configured
// worker pool.
func CorrelationMatrix(ctx context.Context, ds *Dataset, columns []string) ([]CorrelationPair, error) {
	return correlation.Matrix(ctx, ds, columns, config.GetGlobalConfig().Workers())
}

// NewReservoir creates a scatter sampler. A non-positive maxPoints uses the
// configured sample_max_points; a zero seed uses the configured sample_seed,
// and the clock when that is zero too.
func NewReservoir(maxPoints int, seed uint64) *Reservoir {
	cfg := config.GetGlobalConfig().WithDefaults()
	if maxPoints <= 0 {
		maxPoints = cfg.SampleMaxPoints
	}
	if seed == 0 {
		seed = cfg.SampleSeed
	}
	return correlation.NewSeededReservoir(maxPoints, seed)
}

// Summarize profiles the columns of ds.
func Summarize(ds *Dataset, columns ...string) *Summary {
	return dataops.Summarize(ds, columns...)
}

// Preview returns the first limit rows of ds.
func Preview(ds *Dataset, limit int) PreviewResult {
	return dataops.Preview(ds, limit)
}

// RemoveNulls deletes or imputes null cells.
func RemoveNulls(ds *Dataset, opts NullOptions) (*NullResult, error) {
	return dataops.RemoveNulls(ds, opts)
}

// DeriveColumn adds column name computed from an arithmetic expression over
// bracketed column references, such as "[Revenue] - [Cost]".
func DeriveColumn(ds *Dataset, name, expression string) (*DeriveResult, error) {
	return dataops.DeriveColumn(ds, name, expression)
}

// ConvertType rewrites column as the target type.
func ConvertType(ds *Dataset, column string, target TargetType) (*Conversion, error) {
	return dataops.ConvertType(ds, column, target)
}
