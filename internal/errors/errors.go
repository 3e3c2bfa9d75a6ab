// Package errors consolidates error definitions for the pipeline.
//
// Three error classes exist, all fatal to the current run:
//   - ingestion errors (malformed input records)
//   - storage errors (columnar round-trip failures)
//   - query errors (malformed query shapes)
//
// Retry is an external concern: re-run the pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// Ingestion errors
	ErrMalformedDate   = errors.New("malformed date")
	ErrMalformedNumber = errors.New("malformed numeric field")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrEmptyField      = errors.New("empty required field")
	ErrMissingColumn   = errors.New("missing required column")
	ErrEmptyInput      = errors.New("input file has no header row")

	// Storage errors
	ErrCorruptFile    = errors.New("corrupt or truncated file")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrWriterClosed   = errors.New("writer is closed")

	// Query errors
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidQuery  = errors.New("invalid query specification")
	ErrQueryFailed   = errors.New("query execution failed")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingField  = errors.New("missing required field")
)

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsIngestion returns true if err is an ingestion error.
func IsIngestion(err error) bool {
	return errors.Is(err, ErrMalformedDate) ||
		errors.Is(err, ErrMalformedNumber) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrEmptyField) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrEmptyInput)
}

// IsStorage returns true if err is a columnar storage error.
func IsStorage(err error) bool {
	return errors.Is(err, ErrCorruptFile) ||
		errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrWriterClosed)
}

// IsQuery returns true if err is a query error.
func IsQuery(err error) bool {
	return errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrQueryFailed)
}

// IsValidation returns true if err is a configuration validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingField)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewRowError creates an ingestion error tied to a specific input row.
// Row numbers are 1-based and count the header row.
func NewRowError(row int, field string, cause error) error {
	return fmt.Errorf("row %d, field %q: %w", row, field, cause)
}

// NewMalformedDate creates a malformed-date error for a value.
func NewMalformedDate(row int, value string) error {
	return fmt.Errorf("row %d: %q: %w", row, value, ErrMalformedDate)
}

// NewUnknownColumn creates an unknown-column query error.
func NewUnknownColumn(column string) error {
	return fmt.Errorf("%q: %w", column, ErrUnknownColumn)
}

// NewMissingColumn creates a missing-column ingestion error.
func NewMissingColumn(column string) error {
	return fmt.Errorf("%q: %w", column, ErrMissingColumn)
}

// NewValidation creates a configuration validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}
