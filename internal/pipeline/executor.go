package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/monitoring"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/validation"
)

// Result is the outcome of one pipeline run.
type Result struct {
	RunID uuid.UUID
	Data  *dataset.Dataset
	// Trace holds one human-readable entry per applied stage, in order.
	Trace []string
}

// Executor runs query descriptors against datasets.
type Executor struct {
	logger   *slog.Logger
	metrics  *monitoring.MetricsCollector
	language language.Tag
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. Stage records are logged at Debug.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records stage metrics on collector instead of the global one.
func WithMetrics(collector *monitoring.MetricsCollector) Option {
	return func(e *Executor) {
		e.metrics = collector
	}
}

// WithCollation sets the language used to compare text when sorting.
func WithCollation(tag language.Tag) Option {
	return func(e *Executor) {
		e.language = tag
	}
}

// NewExecutor creates an executor. By default it logs to slog.Default(),
// records metrics on the global collector when one is set and collates
// English.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		logger:   slog.Default(),
		language: language.English,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan builds the stages for d in their fixed order. It fails only on an
// invalid aggregation configuration.
func (e *Executor) Plan(d *query.Descriptor) ([]Stage, error) {
	if err := validation.ValidateDescriptor(d); err != nil {
		return nil, err
	}

	var stages []Stage
	for _, f := range d.TimeFilters {
		stages = append(stages, NewTimeFilterStage(f))
	}
	for _, f := range d.ValueFilters {
		stages = append(stages, NewValueFilterStage(f))
	}
	for _, f := range d.ExclusionFilters {
		stages = append(stages, NewExclusionFilterStage(f))
	}
	if d.WantsAggregation() {
		stages = append(stages, NewAggregateStage(d.GroupBy, d.Aggregations, d.DatePeriod))
	}
	if d.TopBottom != nil {
		stages = append(stages, NewTopBottomStage(*d.TopBottom))
	}
	if len(d.Sort) > 0 {
		stages = append(stages, NewSortStage(d.Sort, e.language))
	}
	if d.Limit > 0 {
		stages = append(stages, NewLimitStage(d.Limit))
	}
	return stages, nil
}

// Execute applies d to ds. The input dataset is never modified. A cancelled
// ctx stops the run between stages.
func (e *Executor) Execute(ctx context.Context, ds *dataset.Dataset, d *query.Descriptor) (*Result, error) {
	runID := uuid.New()
	logger := e.logger.With("run_id", runID.String())

	stages, err := e.Plan(d)
	if err != nil {
		logger.ErrorContext(ctx, "invalid query descriptor", "err", err)
		return nil, err
	}

	current := ds
	trace := make([]string, 0, len(stages))
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline %s cancelled before %s: %w", runID, stage.Name(), err)
		}

		in := current
		description := stage.String()
		if describer, ok := stage.(Describer); ok {
			description = describer.Describe(in)
		}

		err := e.record(stage.Name(), in.Len(), func() (int, error) {
			out, err := stage.Apply(in)
			if err != nil {
				return 0, err
			}
			current = out
			return out.Len(), nil
		})
		if err != nil {
			logger.ErrorContext(ctx, "stage failed", "stage", stage.Name(), "err", err)
			return nil, fmt.Errorf("applying %s: %w", stage.Name(), err)
		}

		trace = append(trace, fmt.Sprintf("%s (%s)", description, common.FormatRowDelta(in.Len(), current.Len())))
		logger.DebugContext(ctx, "stage applied",
			"stage", stage.Name(), "rows_in", in.Len(), "rows_out", current.Len())
		if isFilter(stage) && in.Len() > 0 && current.Len() == 0 {
			logger.WarnContext(ctx, "filter removed every row",
				"stage", stage.Name(), "description", description, "rows_in", in.Len())
		}
	}

	return &Result{RunID: runID, Data: current, Trace: trace}, nil
}

func (e *Executor) record(stage string, rowsIn int, fn func() (int, error)) error {
	if e.metrics != nil {
		return e.metrics.RecordStage(stage, rowsIn, fn)
	}
	return monitoring.RecordGlobalStage(stage, rowsIn, fn)
}
