package profile

import "errors"

// Sentinel kinds for profile errors. These allow errors.Is/As from callers.
var (
	// ErrInvalidProfile marks a malformed client value profile: weights that
	// do not sum to 1.0, a negative weight, or interpretation bands that are
	// non-exhaustive or overlapping. It is fatal and raised before any
	// scoring begins.
	ErrInvalidProfile = errors.New("invalid client value profile")
)
