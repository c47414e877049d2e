// Package taxonomy enumerates the fixed policy areas and record enums used
// as scoring dimensions. The sets are immutable and process-wide; every vote
// and position record is classified against them.
package taxonomy

import "fmt"

// PolicyArea is the dimension along which every vote or position is scored.
type PolicyArea string

// Fixed policy areas. These labels match what collectors emit.
const (
	TaxPolicy   PolicyArea = "tax_policy"
	Regulation  PolicyArea = "regulation"
	Spending    PolicyArea = "spending"
	Trade       PolicyArea = "trade"
	LaborPolicy PolicyArea = "labor_policy"
)

// allAreas is the canonical iteration order. Aggregation walks this slice
// rather than a map so results are deterministic.
var allAreas = []PolicyArea{
	TaxPolicy,
	Regulation,
	Spending,
	Trade,
	LaborPolicy,
}

// Areas returns the fixed policy areas in canonical order.
// Callers must not mutate the returned slice.
func Areas() []PolicyArea {
	return allAreas
}

// Valid reports whether a is a recognized policy area.
func (a PolicyArea) Valid() bool {
	switch a {
	case TaxPolicy, Regulation, Spending, Trade, LaborPolicy:
		return true
	default:
		return false
	}
}

// ParsePolicyArea converts a raw label into a PolicyArea.
func ParsePolicyArea(s string) (PolicyArea, error) {
	a := PolicyArea(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: policy area %q", ErrUnknownPolicyArea, s)
	}
	return a, nil
}

// VoteResult is the recorded outcome of a single roll-call vote.
type VoteResult string

// Recognized vote results.
const (
	Yea     VoteResult = "yea"
	Nay     VoteResult = "nay"
	Abstain VoteResult = "abstain"
	Absent  VoteResult = "absent"
)

// Valid reports whether r is a recognized vote result.
func (r VoteResult) Valid() bool {
	switch r {
	case Yea, Nay, Abstain, Absent:
		return true
	default:
		return false
	}
}

// ParseVoteResult converts a raw label into a VoteResult.
func ParseVoteResult(s string) (VoteResult, error) {
	r := VoteResult(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: vote result %q", ErrUnknownVoteResult, s)
	}
	return r, nil
}

// VerificationStatus records how well a fact has been verified against
// primary sources. It drives confidence weighting during scoring.
type VerificationStatus string

// Recognized verification statuses.
const (
	Verified   VerificationStatus = "verified"
	Disputed   VerificationStatus = "disputed"
	Unverified VerificationStatus = "unverified"
)

// Valid reports whether v is a recognized verification status.
func (v VerificationStatus) Valid() bool {
	switch v {
	case Verified, Disputed, Unverified:
		return true
	default:
		return false
	}
}

// ParseVerificationStatus converts a raw label into a VerificationStatus.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	v := VerificationStatus(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: verification status %q", ErrUnknownVerificationStatus, s)
	}
	return v, nil
}
