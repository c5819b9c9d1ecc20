package pipeline

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/validation"
)

// AggregateStage groups rows by the GroupBy columns and emits one row per
// group holding the group values and the requested statistics.
//
// Date group columns are collapsed to Period when one is set; the output
// then shows a display label ("April 2024", "Q2 2024") rather than the raw
// date. Groups are emitted in first-appearance order, except when a period
// was applied or percent_change is requested: then they are ordered
// chronologically, bare month names by calendar month, numbers numerically
// and everything else by label.
type AggregateStage struct {
	GroupBy      []string
	Aggregations []query.Aggregation
	Period       query.DatePeriod
}

// NewAggregateStage creates an aggregation stage.
func NewAggregateStage(groupBy []string, aggregations []query.Aggregation, period query.DatePeriod) *AggregateStage {
	return &AggregateStage{GroupBy: groupBy, Aggregations: aggregations, Period: period}
}

// Name implements Stage.
func (s *AggregateStage) Name() string { return StageAggregate }

type groupPart struct {
	key        string
	label      dataset.Value
	order      orderKey
	normalized bool
}

type group struct {
	parts  []groupPart
	values map[string][]float64
}

// Apply implements Stage.
func (s *AggregateStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	desc := &query.Descriptor{GroupBy: s.GroupBy, Aggregations: s.Aggregations}
	if !desc.WantsAggregation() {
		return ds, nil
	}
	if err := validation.ValidateDescriptor(desc); err != nil {
		return nil, err
	}

	measures := s.measureColumns()
	dateColumns := s.dateColumns(ds)

	index := newGroupIndex(ds.Len())
	var groups []*group
	periodApplied := false

	keys := make([]string, len(s.GroupBy))
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		parts := make([]groupPart, len(s.GroupBy))
		for j, col := range s.GroupBy {
			parts[j] = s.part(row.Get(col), dateColumns[j])
			keys[j] = parts[j].key
			periodApplied = periodApplied || parts[j].normalized
		}

		key := compositeKey(keys)
		id, ok := index.lookup(key)
		if !ok {
			id = len(groups)
			index.insert(key, id)
			groups = append(groups, &group{parts: parts, values: make(map[string][]float64, len(measures))})
		}

		g := groups[id]
		for _, col := range measures {
			if f := row.Get(col).Float(); !math.IsNaN(f) {
				g.values[col] = append(g.values[col], f)
			}
		}
	}

	if periodApplied || s.hasPercentChange() {
		slices.SortStableFunc(groups, func(a, b *group) int {
			for i := range a.parts {
				if c := a.parts[i].order.compare(b.parts[i].order); c != 0 {
					return c
				}
			}
			return 0
		})
	}

	rows := make([]dataset.Row, len(groups))
	for i, g := range groups {
		row := make(dataset.Row, len(s.GroupBy)+len(s.Aggregations))
		for j, col := range s.GroupBy {
			row[col] = g.parts[j].label
		}
		for _, agg := range s.Aggregations {
			if agg.Operation == query.AggPercentChange || !agg.Operation.Valid() {
				continue
			}
			row[agg.OutputName()] = aggregate(agg.Operation, g.values[agg.Column])
		}
		rows[i] = row
	}

	for _, agg := range s.Aggregations {
		if agg.Operation == query.AggPercentChange {
			percentChange(groups, rows, agg)
		}
	}

	return dataset.New(rows, s.outputSummary(ds.Summary(), groups)), nil
}

// percentChange fills agg's column with the change of the group mean against
// the previous group, in percent. The first group, and any group whose own
// or previous mean is undefined or whose previous mean is zero, gets null.
func percentChange(groups []*group, rows []dataset.Row, agg query.Aggregation) {
	name := agg.OutputName()
	prev := math.NaN()
	for i, g := range groups {
		mean := common.Mean(g.values[agg.Column])
		switch {
		case i == 0, math.IsNaN(prev), prev == 0, math.IsNaN(mean):
			rows[i][name] = dataset.Null()
		default:
			rows[i][name] = dataset.Num((mean - prev) / prev * 100)
		}
		prev = mean
	}
}

// aggregate computes one statistic. Over no values sum and count are 0 and
// everything else is null.
func aggregate(op query.Operation, values []float64) dataset.Value {
	switch op {
	case query.AggSum:
		return dataset.Num(common.Sum(values))
	case query.AggMean, query.AggAvg:
		return dataset.Num(common.Mean(values))
	case query.AggCount:
		return dataset.Num(float64(len(values)))
	case query.AggMin:
		return dataset.Num(common.Min(values))
	case query.AggMax:
		return dataset.Num(common.Max(values))
	case query.AggMedian:
		return dataset.Num(common.Median(values))
	default:
		return dataset.Null()
	}
}

func (s *AggregateStage) part(v dataset.Value, isDate bool) groupPart {
	if isDate && s.Period.Valid() {
		if t, ok := v.Date(); ok {
			key, label, start := periodKey(t, s.Period)
			return groupPart{key: key, label: dataset.Text(label), order: orderKey{class: classDate, t: start}, normalized: true}
		}
	}
	return groupPart{key: v.String(), label: v, order: orderKeyOf(v)}
}

// periodKey collapses t to the configured granularity, returning the group
// key, its display label and the instant the period starts.
func periodKey(t time.Time, p query.DatePeriod) (string, string, time.Time) {
	loc := t.Location()
	switch p {
	case query.PeriodDay:
		day := common.StartOfDay(t)
		return day.Format("2006-01-02"), day.Format("2006-01-02"), day
	case query.PeriodMonth:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		return start.Format("2006-01"), start.Format("January 2006"), start
	case query.PeriodMonthOnly:
		start := time.Date(0, t.Month(), 1, 0, 0, 0, 0, loc)
		return fmt.Sprintf("%02d", int(t.Month())), t.Month().String(), start
	case query.PeriodQuarter:
		q := common.Quarter(t)
		start := time.Date(t.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, loc)
		return fmt.Sprintf("%d-Q%d", t.Year(), q), fmt.Sprintf("Q%d %d", q, t.Year()), start
	default:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return fmt.Sprintf("%d", t.Year()), fmt.Sprintf("%d", t.Year()), start
	}
}

// dateColumns flags the group columns treated as dates: those the summary
// marks as dates, and, when the summary does not know a column, those whose
// first non-null value parses as a date.
func (s *AggregateStage) dateColumns(ds *dataset.Dataset) []bool {
	flags := make([]bool, len(s.GroupBy))
	if !s.Period.Valid() {
		return flags
	}
	summary := ds.Summary()
	for i, col := range s.GroupBy {
		if _, known := summary.Column(col); known {
			flags[i] = summary.IsDate(col)
			continue
		}
		for r := 0; r < ds.Len(); r++ {
			v := ds.Row(r).Get(col)
			if v.IsNull() {
				continue
			}
			_, flags[i] = v.Date()
			break
		}
	}
	return flags
}

func (s *AggregateStage) measureColumns() []string {
	var cols []string
	for _, agg := range s.Aggregations {
		if !slices.Contains(cols, agg.Column) {
			cols = append(cols, agg.Column)
		}
	}
	return cols
}

func (s *AggregateStage) hasPercentChange() bool {
	for _, agg := range s.Aggregations {
		if agg.Operation == query.AggPercentChange {
			return true
		}
	}
	return false
}

func (s *AggregateStage) outputSummary(in *dataset.Summary, groups []*group) *dataset.Summary {
	columns := make([]dataset.ColumnSummary, 0, len(s.GroupBy)+len(s.Aggregations))
	for i, col := range s.GroupBy {
		kind := dataset.ColumnCategorical
		if c, ok := in.Column(col); ok {
			kind = c.Kind
		}
		if len(groups) > 0 && groups[0].parts[i].normalized {
			kind = dataset.ColumnCategorical
		}
		columns = append(columns, dataset.ColumnSummary{Name: col, Kind: kind})
	}
	for _, agg := range s.Aggregations {
		if agg.Operation.Valid() {
			columns = append(columns, dataset.ColumnSummary{Name: agg.OutputName(), Kind: dataset.ColumnNumeric})
		}
	}
	return dataset.NewSummary(columns...)
}

// String implements Stage.
func (s *AggregateStage) String() string {
	aggs := make([]string, len(s.Aggregations))
	for i, agg := range s.Aggregations {
		aggs[i] = fmt.Sprintf("%s(%s) as %s", agg.Operation, agg.Column, agg.OutputName())
	}
	desc := fmt.Sprintf("aggregate: %s by %s", common.FormatList(aggs), strings.Join(s.GroupBy, ", "))
	if s.Period.Valid() {
		desc += fmt.Sprintf(" per %s", s.Period)
	}
	return desc
}

// Ordering classes for group values; lower classes sort first.
const (
	classDate = iota
	classMonth
	classNumber
	classText
	classNull
)

type orderKey struct {
	class int
	t     time.Time
	n     float64
	s     string
}

func orderKeyOf(v dataset.Value) orderKey {
	if v.IsNull() {
		return orderKey{class: classNull}
	}
	if t, ok := v.Date(); ok {
		return orderKey{class: classDate, t: t}
	}
	if v.Kind() == dataset.KindText {
		if m, ok := common.MonthFromName(v.String()); ok {
			return orderKey{class: classMonth, n: float64(m)}
		}
	}
	if f := v.Float(); !math.IsNaN(f) {
		return orderKey{class: classNumber, n: f}
	}
	return orderKey{class: classText, s: v.String()}
}

func (k orderKey) compare(other orderKey) int {
	if k.class != other.class {
		return k.class - other.class
	}
	switch k.class {
	case classDate:
		return k.t.Compare(other.t)
	case classMonth, classNumber:
		switch {
		case k.n < other.n:
			return -1
		case k.n > other.n:
			return 1
		}
		return 0
	default:
		return strings.Compare(k.s, other.s)
	}
}
