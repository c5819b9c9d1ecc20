package dataops

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
)

// TargetType is the type ConvertType converts a column to.
type TargetType string

const (
	// TypeNumeric coerces values to numbers.
	TypeNumeric TargetType = "numeric"
	// TypeString renders values as text.
	TypeString TargetType = "string"
	// TypeDate resolves values to instants.
	TypeDate TargetType = "date"
	// TypePercentage coerces to numbers on a 0-1 scale.
	TypePercentage TargetType = "percentage"
	// TypeBoolean maps values to the text "true" or "false".
	TypeBoolean TargetType = "boolean"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	switch t {
	case TypeNumeric, TypeString, TypeDate, TypePercentage, TypeBoolean:
		return true
	}
	return false
}

// ConversionResult reports what ConvertType did.
type ConversionResult struct {
	Data         *dataset.Dataset   `json:"-"`
	Column       string             `json:"column"`
	OriginalKind dataset.ColumnKind `json:"original_type"`
	TargetType   TargetType         `json:"target_type"`
	Failed       int                `json:"failed"`
	Scaled       bool               `json:"scaled,omitempty"`
	Errors       []string           `json:"errors"`
}

// ConvertType rewrites column as target. Nulls stay null. A value that has
// no reading in the target type becomes null and is counted in Failed.
// Percentage values are divided by 100 when any of them exceeds 1, so both
// "45%" and 0.45 end up as 0.45.
func ConvertType(ds *dataset.Dataset, column string, target TargetType) (*ConversionResult, error) {
	if !target.Valid() {
		return nil, errors.NewInvalidInputError("ConvertType", fmt.Sprintf("unknown target type %q", target))
	}
	if !slices.Contains(ds.Columns(), column) {
		return nil, errors.NewColumnNotFoundError("ConvertType", column)
	}

	original := ds.Column(column)
	res := &ConversionResult{
		Column:       column,
		OriginalKind: inferKind(original),
		TargetType:   target,
		Errors:       []string{},
	}

	converted := make([]dataset.Value, len(original))
	for i, v := range original {
		if v.IsNull() {
			converted[i] = v
			continue
		}
		converted[i] = convertValue(v, target)
		if converted[i].IsNull() {
			res.Failed++
		}
	}
	if target == TypePercentage {
		res.Scaled = scalePercentages(converted)
	}
	if res.Failed > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d values could not be converted and were set to null", res.Failed))
	}

	rows := make([]dataset.Row, ds.Len())
	for i, row := range ds.Rows() {
		rows[i] = row.Clone()
		rows[i][column] = converted[i]
	}
	res.Data = dataset.New(rows, withColumnSummary(ds.Summary(), profile(column, converted)))
	return res, nil
}

func convertValue(v dataset.Value, target TargetType) dataset.Value {
	switch target {
	case TypeNumeric, TypePercentage:
		return dataset.Num(v.Float())
	case TypeString:
		return dataset.Text(v.String())
	case TypeDate:
		if t, ok := v.Date(); ok {
			return dataset.Time(t)
		}
		return dataset.Null()
	case TypeBoolean:
		if b, ok := parseBool(v); ok {
			return dataset.Text(strconv.FormatBool(b))
		}
		return dataset.Null()
	default:
		return dataset.Null()
	}
}

func parseBool(v dataset.Value) (bool, bool) {
	if v.Kind() == dataset.KindNumber {
		return v.Float() != 0, true
	}
	switch strings.ToLower(strings.TrimSpace(v.String())) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}

// scalePercentages divides every number by 100 when the largest exceeds 1.
func scalePercentages(values []dataset.Value) bool {
	numbers := common.Numbers(values, dataset.Value.Interface)
	if len(numbers) == 0 || common.Max(numbers) <= 1 {
		return false
	}
	for i, v := range values {
		if f := v.Float(); !math.IsNaN(f) {
			values[i] = dataset.Num(f / 100)
		}
	}
	return true
}
