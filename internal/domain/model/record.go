// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// Candidate identifies the political figure a scoring run is about.
// Fields beyond ID are descriptive metadata echoed into reports.
type Candidate struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Office   string `json:"office"`
	Party    string `json:"party"`
	District string `json:"district"`
}

// VoteRecord is a single verified roll-call vote supplied by the collector.
// Records are immutable once scored; the pipeline never mutates them.
type VoteRecord struct {
	BillID       string                      `json:"bill_id"`
	BillName     string                      `json:"bill_name"`
	Date         time.Time                   `json:"date"`
	Result       taxonomy.VoteResult         `json:"result"`
	Area         taxonomy.PolicyArea         `json:"policy_area"`
	IssueKey     string                      `json:"issue_key"`
	Description  string                      `json:"description"`
	SourceURL    string                      `json:"source_url,omitempty"`
	Verification taxonomy.VerificationStatus `json:"verification_status"`
}

// Validate checks that the record's enum fields are recognized taxonomy
// values. Unknown values are reported as ErrInvalidRecord so the engine can
// exclude the record without aborting the run.
func (v VoteRecord) Validate() error {
	if strings.TrimSpace(v.BillID) == "" {
		return fmt.Errorf("%w: missing bill_id", ErrInvalidRecord)
	}
	if !v.Area.Valid() {
		return fmt.Errorf("%w: bill %s: %q is not a policy area", ErrInvalidRecord, v.BillID, string(v.Area))
	}
	if !v.Result.Valid() {
		return fmt.Errorf("%w: bill %s: %q is not a vote result", ErrInvalidRecord, v.BillID, string(v.Result))
	}
	if !v.Verification.Valid() {
		return fmt.Errorf("%w: bill %s: %q is not a verification status", ErrInvalidRecord, v.BillID, string(v.Verification))
	}
	return nil
}

// PositionRecord is a declared policy stance with supporting evidence.
// Stance is continuous in [-1, 1]: +1 fully supports the issue as keyed,
// -1 fully opposes it. Confidence is the collector's extraction confidence
// in [0, 1], distinct from the verification status.
type PositionRecord struct {
	IssueKey        string                      `json:"issue_key"`
	Area            taxonomy.PolicyArea         `json:"policy_area"`
	Stance          float64                     `json:"stance"`
	EvidenceSources []string                    `json:"evidence_sources,omitempty"`
	Confidence      float64                     `json:"confidence"`
	Verification    taxonomy.VerificationStatus `json:"verification_status"`
}

// Validate checks the record's enum fields and bounds.
func (p PositionRecord) Validate() error {
	if strings.TrimSpace(p.IssueKey) == "" {
		return fmt.Errorf("%w: missing issue_key", ErrInvalidRecord)
	}
	if !p.Area.Valid() {
		return fmt.Errorf("%w: issue %s: %q is not a policy area", ErrInvalidRecord, p.IssueKey, string(p.Area))
	}
	if !p.Verification.Valid() {
		return fmt.Errorf("%w: issue %s: %q is not a verification status", ErrInvalidRecord, p.IssueKey, string(p.Verification))
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: issue %s: confidence %.3f outside [0,1]", ErrInvalidRecord, p.IssueKey, p.Confidence)
	}
	return nil
}

// Run bundles one candidate's full record set for scoring against a named
// client profile. Runs are the unit of work flowing through the queue; the
// collector deduplicates records by bill_id/issue_key before submission.
type Run struct {
	RunID       string           `json:"run_id"`
	ProfileName string           `json:"profile"`
	Candidate   Candidate        `json:"candidate"`
	Votes       []VoteRecord     `json:"votes"`
	Positions   []PositionRecord `json:"positions"`
	SubmittedAt time.Time        `json:"submitted_at"`
}
