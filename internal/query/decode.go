package query

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// wire mirrors the JSON shape produced by the upstream query planner.
type wire struct {
	TimeFilters           []wireTimeFilter      `json:"timeFilters"`
	ValueFilters          []wireValueFilter     `json:"valueFilters"`
	ExclusionFilters      []wireExclusionFilter `json:"exclusionFilters"`
	GroupBy               []string              `json:"groupBy"`
	Aggregations          []wireAggregation     `json:"aggregations"`
	DateAggregationPeriod string                `json:"dateAggregationPeriod"`
	Sort                  []wireSort            `json:"sort"`
	TopBottom             *wireTopBottom        `json:"topBottom"`
	Limit                 interface{}           `json:"limit"`
}

type wireTimeFilter struct {
	Type      string        `json:"type"`
	Column    string        `json:"column"`
	Years     []interface{} `json:"years"`
	Months    []string      `json:"months"`
	Quarters  []interface{} `json:"quarters"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Unit      string        `json:"unit"`
	Direction string        `json:"direction"`
	Amount    interface{}   `json:"amount"`
}

type wireValueFilter struct {
	Column    string      `json:"column"`
	Operator  string      `json:"operator"`
	Value     interface{} `json:"value"`
	Value2    interface{} `json:"value2"`
	Reference string      `json:"reference"`
}

type wireExclusionFilter struct {
	Column string        `json:"column"`
	Values []interface{} `json:"values"`
}

type wireAggregation struct {
	Column    string `json:"column"`
	Operation string `json:"operation"`
	Alias     string `json:"alias"`
}

type wireSort struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

type wireTopBottom struct {
	Type   string      `json:"type"`
	Column string      `json:"column"`
	Count  interface{} `json:"count"`
}

// Parse decodes a JSON descriptor. Malformed JSON is an error; unknown time
// filter types and non-positive limits are dropped, and unknown enum strings are
// kept verbatim so the stage that meets them can pass its input through.
func Parse(data []byte) (*Descriptor, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing query descriptor: %w", err)
	}
	return w.descriptor(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func (w wire) descriptor() *Descriptor {
	d := &Descriptor{
		GroupBy:    w.GroupBy,
		DatePeriod: DatePeriod(w.DateAggregationPeriod),
	}

	for _, tf := range w.TimeFilters {
		if f := tf.filter(); f != nil {
			d.TimeFilters = append(d.TimeFilters, f)
		}
	}

	for _, vf := range w.ValueFilters {
		d.ValueFilters = append(d.ValueFilters, ValueFilter{
			Column:    vf.Column,
			Operator:  Operator(vf.Operator),
			Value:     common.ToNumber(vf.Value),
			Value2:    common.ToNumber(vf.Value2),
			Reference: Reference(vf.Reference),
		})
	}

	for _, ef := range w.ExclusionFilters {
		values := make([]dataset.Value, len(ef.Values))
		for i, v := range ef.Values {
			values[i] = dataset.Of(v)
		}
		d.ExclusionFilters = append(d.ExclusionFilters, ExclusionFilter{Column: ef.Column, Values: values})
	}

	for _, a := range w.Aggregations {
		d.Aggregations = append(d.Aggregations, Aggregation{
			Column:    a.Column,
			Operation: Operation(a.Operation),
			Alias:     a.Alias,
		})
	}

	for _, s := range w.Sort {
		d.Sort = append(d.Sort, SortKey{Column: s.Column, Direction: SortDirection(s.Direction)})
	}

	if w.TopBottom != nil {
		d.TopBottom = &TopBottom{
			Mode:   TopBottomMode(w.TopBottom.Type),
			Column: w.TopBottom.Column,
			Count:  toInt(w.TopBottom.Count),
		}
	}

	if limit := toInt(w.Limit); limit > 0 {
		d.Limit = limit
	}

	return d
}

func (tf wireTimeFilter) filter() TimeFilter {
	switch TimeFilterKind(tf.Type) {
	case TimeYear:
		return YearFilter{Column: tf.Column, Years: toInts(tf.Years)}
	case TimeMonth:
		return MonthFilter{Column: tf.Column, Months: tf.Months}
	case TimeQuarter:
		return QuarterFilter{Column: tf.Column, Quarters: toInts(tf.Quarters)}
	case TimeDateRange:
		return DateRangeFilter{Column: tf.Column, Start: tf.StartDate, End: tf.EndDate}
	case TimeRelative:
		return RelativeFilter{
			Column:    tf.Column,
			Unit:      RelativeUnit(tf.Unit),
			Direction: RelativeDirection(tf.Direction),
			Amount:    toInt(tf.Amount),
		}
	default:
		return nil
	}
}

func toInt(v interface{}) int {
	f := common.ToNumber(v)
	if math.IsNaN(f) {
		return 0
	}
	return int(f)
}

func toInts(values []interface{}) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		f := common.ToNumber(v)
		if math.IsNaN(f) {
			continue
		}
		out = append(out, int(f))
	}
	return out
}
