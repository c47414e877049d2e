// Package engine aggregates per-record contributions into a composite
// alignment score for one candidate under one client value profile.
//
// Aggregation is deterministic: areas are walked in canonical taxonomy
// order, there is no randomness, and no I/O happens during a run. A profile
// is read-only, so many runs may share one concurrently.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/scoring"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
	"github.com/veritable/scorecard/pkg/logger"
	"github.com/veritable/scorecard/pkg/metrics"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer sets a custom record scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine computes composite scores from validated record sets.
type Engine struct {
	scorer scoring.Scorer
	logger logger.Logger
}

// New constructs an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		scorer: scoring.NewVoteScorer(),
		logger: logger.Get().Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// areaAccum collects per-area state during a single run.
type areaAccum struct {
	sum     float64 // confidence-scaled signed contributions
	count   int     // records scored into the area
	gapFlag bool    // an issue key the profile takes no position on
}

// Aggregate scores every record in the run and folds the results into one
// CompositeScore.
//
// Invalid records are excluded and logged, never fatal. The composite is
// the weight-normalized sum of per-area means; when no weight applies at
// all the run fails with ErrInsufficientData instead of reporting a
// misleading zero.
func (e *Engine) Aggregate(ctx context.Context, run model.Run, p *profile.Profile) (model.CompositeScore, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	}()

	if p == nil {
		return model.CompositeScore{}, fmt.Errorf("%w: run %s has no profile", profile.ErrInvalidProfile, run.RunID)
	}

	accum := make(map[taxonomy.PolicyArea]*areaAccum, len(taxonomy.Areas()))
	var excluded []string

	for _, v := range run.Votes {
		c, err := e.scorer.ScoreVote(ctx, v, p)
		if err != nil {
			if errors.Is(err, model.ErrInvalidRecord) {
				e.logger.Warn(ctx, "excluding invalid vote record",
					logger.String("runID", run.RunID),
					logger.String("billID", v.BillID),
					logger.Error(err),
				)
				metrics.RecordRecordExcluded()
				excluded = append(excluded, v.BillID)
				continue
			}
			return model.CompositeScore{}, err
		}
		e.fold(accum, c)
	}

	for _, pos := range run.Positions {
		c, err := e.scorer.ScorePosition(ctx, pos, p)
		if err != nil {
			if errors.Is(err, model.ErrInvalidRecord) {
				e.logger.Warn(ctx, "excluding invalid position record",
					logger.String("runID", run.RunID),
					logger.String("issueKey", pos.IssueKey),
					logger.Error(err),
				)
				metrics.RecordRecordExcluded()
				excluded = append(excluded, pos.IssueKey)
				continue
			}
			return model.CompositeScore{}, err
		}
		e.fold(accum, c)
	}

	components := make([]model.ScoreComponent, 0, len(taxonomy.Areas()))
	var gaps []taxonomy.PolicyArea
	weighted := 0.0
	appliedWeight := 0.0

	for _, area := range taxonomy.Areas() {
		comp := model.ScoreComponent{Area: area}
		a := accum[area]
		weight, _ := p.Weight(area)

		switch {
		case a == nil || a.count == 0:
			// No evidence in this area at all.
			gaps = append(gaps, area)
		case weight <= 0:
			// Evidence exists but the profile gives it no weight.
			comp.RecordCount = a.count
			gaps = append(gaps, area)
		default:
			mean := a.sum / float64(a.count)
			comp.RawContribution = mean * weight
			comp.WeightApplied = weight
			comp.RecordCount = a.count
			weighted += comp.RawContribution
			appliedWeight += weight
			if a.gapFlag {
				// Some records hit issues the profile takes no position on.
				gaps = append(gaps, area)
			}
		}
		components = append(components, comp)
	}

	metrics.RecordCoverageGaps(len(gaps))

	if appliedWeight == 0 {
		metrics.RecordInsufficientData()
		return model.CompositeScore{}, fmt.Errorf("%w: run %s for candidate %s under profile %s produced no applied weight",
			ErrInsufficientData, run.RunID, run.Candidate.ID, p.Name())
	}

	overall := weighted / appliedWeight
	label, err := p.Label(overall)
	if err != nil {
		return model.CompositeScore{}, err
	}

	return model.CompositeScore{
		Candidate:       run.Candidate,
		ProfileName:     p.Name(),
		Overall:         overall,
		Interpretation:  label,
		Components:      components,
		CoverageGaps:    gaps,
		ExcludedRecords: excluded,
		EvaluatedAt:     time.Now().UTC(),
	}, nil
}

func (e *Engine) fold(accum map[taxonomy.PolicyArea]*areaAccum, c scoring.Contribution) {
	a := accum[c.Area]
	if a == nil {
		a = &areaAccum{}
		accum[c.Area] = a
	}
	a.sum += c.Scaled()
	a.count++
	if !c.IssueKnown {
		a.gapFlag = true
	}
}
