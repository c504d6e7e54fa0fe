package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every cleaning failure caused by a malformed value
	ErrParse = errors.New("parse error")
	// ErrStructure marks a value that does not have the expected textual shape
	ErrStructure = errors.New("unexpected value structure")
	// ErrNotFinite marks a numeric value that parses as NaN or infinity
	ErrNotFinite = errors.New("value is not a finite number")
	// ErrEmptyDataset is returned by scalar metrics that have no rows to work on
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrGroupNotFound is returned when a requested group has no rows
	ErrGroupNotFound = errors.New("group not found")
	// ErrUndefinedStatistic is returned when a statistic cannot be computed for a group
	ErrUndefinedStatistic = errors.New("statistic undefined")
	// ErrMissingColumn is returned when the extract lacks a required column
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for extracts that are neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// CleanError describes the value that made a cleaning run fail
type CleanError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *CleanError) Error() string {
	return fmt.Sprintf("line %d: field %s: cannot parse %q: %v", e.Line, e.Field, e.Value, e.Err)
}

// Is reports ErrParse for every CleanError so callers can match the failure class
func (e *CleanError) Is(target error) bool {
	return target == ErrParse
}

func (e *CleanError) Unwrap() error {
	return e.Err
}
