package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors abort a report run at the import boundary.
	ErrConfiguration    = errors.New("configuration error")
	ErrMissingColumns   = fmt.Errorf("%w: required columns missing", ErrConfiguration)
	ErrUnknownColumn    = fmt.Errorf("%w: unknown column", ErrConfiguration)
	ErrAmbiguousModel   = fmt.Errorf("%w: model selector is ambiguous", ErrConfiguration)
	ErrModelNotFound    = fmt.Errorf("%w: model not found", ErrConfiguration)
	ErrUnsupportedInput = fmt.Errorf("%w: unsupported input format", ErrConfiguration)

	// Degenerate data is never fatal; computations fall back to sentinel
	// values. These exist so callers can log what was absorbed.
	ErrEmptyTable   = errors.New("empty input table")
	ErrZeroResponse = errors.New("zero total responses")
)

// NewMissingColumnsError lists every absent required column in one message.
func NewMissingColumnsError(table string, missing []string) error {
	return fmt.Errorf("%w in %s table: %s", ErrMissingColumns, table, strings.Join(missing, ", "))
}

// NewUnknownColumnError reports a filter or facet key that is not a column.
func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

// NewModelNotFoundError reports a model selector that matched zero rows.
func NewModelNotFoundError(selector string) error {
	return fmt.Errorf("%w: %q", ErrModelNotFound, selector)
}

// NewAmbiguousModelError reports a selector that matched more than one model.
func NewAmbiguousModelError(selector string, matches int) error {
	return fmt.Errorf("%w: %q matched %d models", ErrAmbiguousModel, selector, matches)
}

// IsConfigurationError reports whether err aborts the pipeline.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
