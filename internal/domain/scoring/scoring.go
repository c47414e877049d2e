// Package scoring converts individual vote and position records into signed
// per-area contributions under a client value profile. Scoring is a pure
// function of its inputs: no I/O, no shared state, deterministic.
package scoring

import (
	"context"
	"math"

	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// Confidence factors derived from verification status. A disputed record
// contributes exactly half of an otherwise-identical verified record.
const (
	verifiedFactor   = 1.0
	disputedFactor   = 0.5
	unverifiedFactor = 0.25

	// missingSourceDamp is applied on top of the status factor when a record
	// carries no citation. Absence of a source must lower confidence; it is
	// never silently included at full weight.
	missingSourceDamp = 0.5
)

// Contribution is the scored output for a single record. Signed holds the
// raw direction (+1, -1, or 0 for votes; the oriented stance for positions)
// and Confidence the verification-derived factor, kept separate so auditors
// can recompute the scaled value.
type Contribution struct {
	Area       taxonomy.PolicyArea
	Signed     float64
	Confidence float64

	// IssueKnown is false when the profile takes no position on the record's
	// issue key. The contribution is then neutral and the engine surfaces
	// the area as a coverage gap instead of guessing intent.
	IssueKnown bool
}

// Scaled returns the confidence-scaled contribution that enters aggregation.
func (c Contribution) Scaled() float64 {
	return c.Signed * c.Confidence
}

// Scorer computes contributions for individual records.
type Scorer interface {
	// ScoreVote scores a single roll-call vote under the given profile.
	ScoreVote(ctx context.Context, v model.VoteRecord, p *profile.Profile) (Contribution, error)

	// ScorePosition scores a single declared stance under the given profile.
	ScorePosition(ctx context.Context, pos model.PositionRecord, p *profile.Profile) (Contribution, error)
}

// Option applies a configuration option to the VoteScorer.
type Option func(*VoteScorer)

// WithMissingSourceDamp overrides the extra confidence factor applied to
// records with no citation.
func WithMissingSourceDamp(factor float64) Option {
	return func(s *VoteScorer) {
		if factor > 0 && factor <= 1 {
			s.missingSourceDamp = factor
		}
	}
}

// VoteScorer implements Scorer. The zero configuration matches the factors
// documented above.
type VoteScorer struct {
	missingSourceDamp float64
}

// NewVoteScorer creates a scorer with configuration options.
func NewVoteScorer(opts ...Option) *VoteScorer {
	s := &VoteScorer{
		missingSourceDamp: missingSourceDamp,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreVote converts one vote into a signed contribution. The sign is +1
// when the vote matches the client's preferred outcome for the issue, -1
// when it opposes it, and 0 for abstain/absent. The magnitude is scaled by
// the verification-derived confidence factor.
func (s *VoteScorer) ScoreVote(_ context.Context, v model.VoteRecord, p *profile.Profile) (Contribution, error) {
	if err := v.Validate(); err != nil {
		return Contribution{}, err
	}

	c := Contribution{
		Area:       v.Area,
		Confidence: s.confidence(v.Verification, v.SourceURL != ""),
		IssueKnown: true,
	}

	preferred, known := p.PreferredOutcome(v.IssueKey)
	if !known {
		// No declared polarity for this issue: neutral, flagged as a gap.
		c.IssueKnown = false
		return c, nil
	}

	switch v.Result {
	case taxonomy.Yea:
		if preferred {
			c.Signed = 1
		} else {
			c.Signed = -1
		}
	case taxonomy.Nay:
		if preferred {
			c.Signed = -1
		} else {
			c.Signed = 1
		}
	case taxonomy.Abstain, taxonomy.Absent:
		c.Signed = 0
	}
	return c, nil
}

// ScorePosition converts one declared stance into a signed contribution.
// The stance is clamped to [-1, 1] and oriented by the issue's preferred
// polarity, then scaled by the record's own confidence and the verification
// factor.
func (s *VoteScorer) ScorePosition(_ context.Context, pos model.PositionRecord, p *profile.Profile) (Contribution, error) {
	if err := pos.Validate(); err != nil {
		return Contribution{}, err
	}

	c := Contribution{
		Area:       pos.Area,
		Confidence: pos.Confidence * s.confidence(pos.Verification, len(pos.EvidenceSources) > 0),
		IssueKnown: true,
	}

	preferred, known := p.PreferredOutcome(pos.IssueKey)
	if !known {
		c.IssueKnown = false
		return c, nil
	}

	stance := math.Max(-1, math.Min(1, pos.Stance))
	if preferred {
		c.Signed = stance
	} else {
		c.Signed = -stance
	}
	return c, nil
}

// confidence derives the scaling factor from verification status and the
// presence of a citation.
func (s *VoteScorer) confidence(status taxonomy.VerificationStatus, hasSource bool) float64 {
	factor := unverifiedFactor
	switch status {
	case taxonomy.Verified:
		factor = verifiedFactor
	case taxonomy.Disputed:
		factor = disputedFactor
	case taxonomy.Unverified:
		factor = unverifiedFactor
	}
	if !hasSource {
		factor *= s.missingSourceDamp
	}
	return factor
}
