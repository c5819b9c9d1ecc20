// Package validation provides the configuration checks the pipeline applies
// to a query descriptor before running it. Only aggregation configuration can
// fail a run; everything else the stages tolerate by passing data through.
package validation

import (
	"fmt"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/errors"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/query"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// AggregationValidator checks that a requested aggregation can run
type AggregationValidator struct {
	groupBy      []string
	aggregations []query.Aggregation
}

// NewAggregationValidator creates a validator for the descriptor's aggregation request
func NewAggregationValidator(d *query.Descriptor) *AggregationValidator {
	return &AggregationValidator{
		groupBy:      d.GroupBy,
		aggregations: d.Aggregations,
	}
}

// Validate returns an invalid configuration error when an aggregation entry
// has no column, or percent_change is requested without exactly one group
// column. An empty groupBy or aggregation list is a no-op, not an error.
func (v *AggregationValidator) Validate() error {
	if len(v.groupBy) == 0 || len(v.aggregations) == 0 {
		return nil
	}

	for i, agg := range v.aggregations {
		if agg.Column == "" {
			return errors.NewInvalidConfigurationError("Aggregate", agg.Alias,
				fmt.Sprintf("aggregation %d (%s) has no column", i, agg.Operation))
		}
		if agg.Operation == query.AggPercentChange && len(v.groupBy) != 1 {
			return errors.NewInvalidConfigurationError("Aggregate", agg.Column,
				fmt.Sprintf("percent_change requires exactly one groupBy column, got %d", len(v.groupBy)))
		}
	}
	return nil
}

// GroupColumnValidator checks that group columns are named
type GroupColumnValidator struct {
	groupBy []string
}

// NewGroupColumnValidator creates a validator for the groupBy list
func NewGroupColumnValidator(d *query.Descriptor) *GroupColumnValidator {
	return &GroupColumnValidator{groupBy: d.GroupBy}
}

// Validate rejects empty group column names when aggregating
func (v *GroupColumnValidator) Validate() error {
	for i, col := range v.groupBy {
		if col == "" {
			return errors.NewInvalidConfigurationError("Aggregate", "",
				fmt.Sprintf("groupBy entry %d is empty", i))
		}
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDescriptor runs every configuration check that can fail a pipeline run
func ValidateDescriptor(d *query.Descriptor) error {
	if !d.WantsAggregation() {
		return nil
	}
	return NewCompoundValidator(
		NewGroupColumnValidator(d),
		NewAggregationValidator(d),
	).Validate()
}
