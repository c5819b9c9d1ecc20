package pipeline

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// TimeFilterStage keeps rows whose date falls inside a time filter.
//
// The target column is the filter's own column, or the first date column of
// the dataset summary. Rows whose date cannot be parsed are dropped. When no
// column can be resolved, or the filter carries nothing usable, the stage
// passes its input through unchanged.
type TimeFilterStage struct {
	Filter query.TimeFilter
}

// NewTimeFilterStage creates a time filter stage.
func NewTimeFilterStage(f query.TimeFilter) *TimeFilterStage {
	return &TimeFilterStage{Filter: f}
}

// Name implements Stage.
func (s *TimeFilterStage) Name() string { return StageTimeFilter }

// Apply implements Stage.
func (s *TimeFilterStage) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	column, ok := s.column(ds)
	if !ok {
		return ds, nil
	}

	var match func(time.Time) bool
	switch f := s.Filter.(type) {
	case query.YearFilter:
		match = yearMatcher(f)
	case query.MonthFilter:
		match = monthMatcher(f)
	case query.QuarterFilter:
		match = quarterMatcher(f)
	case query.DateRangeFilter:
		match = dateRangeMatcher(f)
	case query.RelativeFilter:
		match = relativeMatcher(f, ds, column)
	}
	if match == nil {
		return ds, nil
	}

	return keepRows(ds, func(row dataset.Row) bool {
		t, ok := row.Get(column).Date()
		return ok && match(t)
	}), nil
}

func (s *TimeFilterStage) column(ds *dataset.Dataset) (string, bool) {
	if s.Filter == nil {
		return "", false
	}
	if c := s.Filter.Target(); c != "" {
		return c, true
	}
	return ds.Summary().FirstDateColumn()
}

// String implements Stage.
func (s *TimeFilterStage) String() string {
	column := "date"
	if s.Filter != nil && s.Filter.Target() != "" {
		column = s.Filter.Target()
	}

	switch f := s.Filter.(type) {
	case query.YearFilter:
		return fmt.Sprintf("time filter: %s year in [%s]", column, common.FormatList(intStrings(f.Years)))
	case query.MonthFilter:
		return fmt.Sprintf("time filter: %s month in [%s]", column, common.FormatList(f.Months))
	case query.QuarterFilter:
		qs := make([]string, len(f.Quarters))
		for i, q := range f.Quarters {
			qs[i] = "Q" + strconv.Itoa(q)
		}
		return fmt.Sprintf("time filter: %s quarter in [%s]", column, common.FormatList(qs))
	case query.DateRangeFilter:
		return fmt.Sprintf("time filter: %s from %s to %s", column, orOpen(f.Start), orOpen(f.End))
	case query.RelativeFilter:
		return fmt.Sprintf("time filter: %s %s %d %s(s)", column, f.Direction, f.Amount, f.Unit)
	default:
		return "time filter: none"
	}
}

func yearMatcher(f query.YearFilter) func(time.Time) bool {
	if len(f.Years) == 0 {
		return nil
	}
	return func(t time.Time) bool {
		return slices.Contains(f.Years, t.Year())
	}
}

type monthWanted struct {
	month   time.Month
	year    int
	hasYear bool
}

// monthMatcher accepts plain month names ("Apr", "april") that match on the
// month alone, and combined month-year tokens ("Apr-24", "April 2024") that
// also require the year to match.
func monthMatcher(f query.MonthFilter) func(time.Time) bool {
	var wanted []monthWanted
	for _, entry := range f.Months {
		if m, ok := common.MonthFromName(entry); ok {
			wanted = append(wanted, monthWanted{month: m})
			continue
		}
		if m, y, ok := common.ParseMonthYear(entry); ok {
			wanted = append(wanted, monthWanted{month: m, year: y, hasYear: true})
		}
	}
	if len(wanted) == 0 {
		return nil
	}
	return func(t time.Time) bool {
		for _, w := range wanted {
			if t.Month() != w.month {
				continue
			}
			if !w.hasYear || t.Year() == w.year {
				return true
			}
		}
		return false
	}
}

func quarterMatcher(f query.QuarterFilter) func(time.Time) bool {
	if len(f.Quarters) == 0 {
		return nil
	}
	return func(t time.Time) bool {
		return slices.Contains(f.Quarters, common.Quarter(t))
	}
}

// dateRangeMatcher compares whole days: the start bound is moved to
// 00:00:00.000, the end bound to 23:59:59.999 and each row to the start of
// its own day. A bound that does not parse leaves that side open.
func dateRangeMatcher(f query.DateRangeFilter) func(time.Time) bool {
	start, hasStart := common.ParseDateString(f.Start)
	end, hasEnd := common.ParseDateString(f.End)
	if !hasStart && !hasEnd {
		return nil
	}
	start = common.StartOfDay(start)
	end = common.EndOfDay(end)

	return func(t time.Time) bool {
		day := common.StartOfDay(t)
		if hasStart && day.Before(start) {
			return false
		}
		if hasEnd && day.After(end) {
			return false
		}
		return true
	}
}

// relativeMatcher anchors "now" at the latest date found in the column, so
// results depend only on the data and never on the wall clock.
func relativeMatcher(f query.RelativeFilter, ds *dataset.Dataset, column string) func(time.Time) bool {
	var pivot time.Time
	found := false
	for i := 0; i < ds.Len(); i++ {
		if t, ok := ds.Row(i).Get(column).Date(); ok && (!found || t.After(pivot)) {
			pivot, found = t, true
		}
	}
	if !found {
		return nil
	}

	amount := f.Amount
	if f.Direction == query.Past {
		amount = -amount
	} else if f.Direction != query.Future {
		return nil
	}

	var offset time.Time
	switch f.Unit {
	case query.UnitDay:
		offset = pivot.AddDate(0, 0, amount)
	case query.UnitWeek:
		offset = pivot.AddDate(0, 0, 7*amount)
	case query.UnitMonth:
		offset = pivot.AddDate(0, amount, 0)
	case query.UnitQuarter:
		offset = pivot.AddDate(0, 3*amount, 0)
	case query.UnitYear:
		offset = pivot.AddDate(amount, 0, 0)
	default:
		return nil
	}

	lo, hi := offset, pivot
	if lo.After(hi) {
		lo, hi = hi, lo
	}
	return func(t time.Time) bool {
		return !t.Before(lo) && !t.After(hi)
	}
}

func intStrings(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func orOpen(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(open)"
	}
	return s
}
