package engine

import "errors"

// Sentinel kinds for aggregation errors. These allow errors.Is/As from callers.
var (
	// ErrInsufficientData marks a run where no record produced any applied
	// weight, leaving the composite score undefined. Fatal for that run only.
	ErrInsufficientData = errors.New("insufficient data for composite score")
)
