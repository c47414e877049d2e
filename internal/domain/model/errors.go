package model

import "errors"

// Sentinel kinds for record errors. These allow errors.Is/As from callers.
var (
	// ErrInvalidRecord marks a malformed individual record: a field outside
	// the taxonomy or an out-of-bounds value. Scoring excludes the record
	// and continues; it never aborts the whole run.
	ErrInvalidRecord = errors.New("invalid record")
)
