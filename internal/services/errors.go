package services

import "errors"

// Dashboard service errors
var (
	// ErrAggregatePanic wraps a panic raised while computing one aggregate
	ErrAggregatePanic = errors.New("aggregate panicked")
)
