package query

// TimeFilterKind discriminates the TimeFilter variants.
type TimeFilterKind string

const (
	TimeYear      TimeFilterKind = "year"
	TimeMonth     TimeFilterKind = "month"
	TimeQuarter   TimeFilterKind = "quarter"
	TimeDateRange TimeFilterKind = "dateRange"
	TimeRelative  TimeFilterKind = "relative"
)

// TimeFilter is implemented by each time filter variant. Target is the
// explicit column, or "" to use the first date column of the dataset.
type TimeFilter interface {
	Kind() TimeFilterKind
	Target() string
}

// YearFilter keeps rows whose year is one of Years.
type YearFilter struct {
	Column string
	Years  []int
}

func (f YearFilter) Kind() TimeFilterKind { return TimeYear }
func (f YearFilter) Target() string       { return f.Column }

// MonthFilter keeps rows whose month matches one of Months. Entries are either
// plain month names ("Apr", "april") matching any year, or combined month-year
// tokens ("Apr-24", "April 2024") matching that month of that year only.
type MonthFilter struct {
	Column string
	Months []string
}

func (f MonthFilter) Kind() TimeFilterKind { return TimeMonth }
func (f MonthFilter) Target() string       { return f.Column }

// QuarterFilter keeps rows in one of the 1-based Quarters.
type QuarterFilter struct {
	Column   string
	Quarters []int
}

func (f QuarterFilter) Kind() TimeFilterKind { return TimeQuarter }
func (f QuarterFilter) Target() string       { return f.Column }

// DateRangeFilter keeps rows whose calendar day falls within [Start, End].
// An empty bound is open.
type DateRangeFilter struct {
	Column string
	Start  string
	End    string
}

func (f DateRangeFilter) Kind() TimeFilterKind { return TimeDateRange }
func (f DateRangeFilter) Target() string       { return f.Column }

// RelativeUnit is the step of a relative window.
type RelativeUnit string

const (
	UnitDay     RelativeUnit = "day"
	UnitWeek    RelativeUnit = "week"
	UnitMonth   RelativeUnit = "month"
	UnitQuarter RelativeUnit = "quarter"
	UnitYear    RelativeUnit = "year"
)

// RelativeDirection is past or future from the pivot.
type RelativeDirection string

const (
	Past   RelativeDirection = "past"
	Future RelativeDirection = "future"
)

// RelativeFilter keeps rows within Amount units before (past) or after
// (future) the latest date found in the column.
type RelativeFilter struct {
	Column    string
	Unit      RelativeUnit
	Direction RelativeDirection
	Amount    int
}

func (f RelativeFilter) Kind() TimeFilterKind { return TimeRelative }
func (f RelativeFilter) Target() string       { return f.Column }
