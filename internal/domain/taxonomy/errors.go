package taxonomy

import "errors"

// Sentinel kinds for taxonomy errors. These allow errors.Is/As from callers.
var (
	ErrUnknownPolicyArea         = errors.New("unknown policy area")
	ErrUnknownVoteResult         = errors.New("unknown vote result")
	ErrUnknownVerificationStatus = errors.New("unknown verification status")
)
