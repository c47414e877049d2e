// Package repository defines the composite-score store interface and errors.
package repository

import (
	"context"

	"github.com/veritable/scorecard/internal/domain/model"
)

// Entry represents one ranking row for a candidate under a profile.
type Entry struct {
	Rank           int
	CandidateID    string
	Profile        string
	Overall        float64
	Interpretation string
}

// Store provides read/write access to scored results, keyed by
// (profile, candidate) so the same candidate may carry a different
// score under every client value profile.
type Store interface {
	// Upsert stores the composite score for its (profile, candidate) pair,
	// replacing any previous result. Returns true when the stored value
	// changed (new candidate or different overall score).
	Upsert(ctx context.Context, score model.CompositeScore) (bool, error)

	// Get returns the full composite score for a candidate under a profile.
	// Returns ErrNotFound if the pair has not been scored.
	Get(ctx context.Context, profileName, candidateID string) (model.CompositeScore, error)

	// Rank returns the current rank and score for a candidate under a profile.
	// Returns ErrNotFound if the pair has not been scored.
	Rank(ctx context.Context, profileName, candidateID string) (Entry, error)

	// TopN returns the top-N entries for a profile ordered by overall score
	// descending, candidate ID ascending on ties.
	TopN(ctx context.Context, profileName string, n int) ([]Entry, error)

	// Count returns the number of distinct candidates with at least one
	// stored score.
	Count(ctx context.Context) int
}
