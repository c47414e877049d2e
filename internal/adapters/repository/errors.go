package repository

import "errors"

// Sentinel kinds for score store errors.
var (
	ErrNotFound     = errors.New("candidate not scored under profile")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
