// Package errors provides standardized error types for pipeline and correlation operations.
// This package defines PipelineError for consistent error handling across
// all public APIs, with stage context and error wrapping support.
package errors

import (
	"fmt"
)

// PipelineError represents standardized errors across all pipeline operations
type PipelineError struct {
	Op      string // Stage or operation name (e.g., "Aggregate", "Correlate")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *PipelineError) Is(target error) bool {
	if pe, ok := target.(*PipelineError); ok {
		return e.Op == pe.Op && e.Column == pe.Column && e.Message == pe.Message
	}
	return false
}

// Predefined sentinels. Callers match them with errors.Is; the constructors
// below wrap them as Cause so both the sentinel and the details survive.
var (
	// ErrInvalidConfiguration is the only condition the orchestrator treats as fatal.
	ErrInvalidConfiguration = &PipelineError{
		Op:      "configuration",
		Message: "invalid query configuration",
	}

	// ErrInsufficientData signals fewer than two valid numeric pairs.
	ErrInsufficientData = &PipelineError{
		Op:      "correlation",
		Message: "insufficient data: at least 2 valid numeric pairs are required",
	}
)

// NewInvalidConfigurationError creates an error for descriptor entries missing required parameters
func NewInvalidConfigurationError(op, column, message string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Column:  column,
		Message: message,
		Cause:   ErrInvalidConfiguration,
	}
}

// NewInsufficientDataError creates an error for a correlation over too few pairs
func NewInsufficientDataError(xColumn, yColumn string, pairs int) *PipelineError {
	return &PipelineError{
		Op:      "Correlate",
		Column:  xColumn + "," + yColumn,
		Message: fmt.Sprintf("found %d valid numeric pairs, need at least 2", pairs),
		Cause:   ErrInsufficientData,
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Message: message,
	}
}
