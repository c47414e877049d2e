package model

import (
	"time"

	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// ScoreComponent is one policy area's slice of a composite score. The raw
// contribution is the confidence-scaled mean for the area multiplied by the
// weight actually applied, so auditors can recompute the composite from the
// components alone.
type ScoreComponent struct {
	Area            taxonomy.PolicyArea `json:"policy_area"`
	RawContribution float64             `json:"raw_contribution"`
	WeightApplied   float64             `json:"weight_applied"`
	RecordCount     int                 `json:"record_count"`
}

// CompositeScore is the final alignment score for one (candidate, profile)
// run. It is constructed once per run and never mutated; a re-run produces a
// new instance. Overall is normalized to [-1, 1].
type CompositeScore struct {
	Candidate      Candidate             `json:"candidate"`
	ProfileName    string                `json:"profile"`
	Overall        float64               `json:"overall"`
	Interpretation string                `json:"interpretation_label"`
	Components     []ScoreComponent      `json:"components"`
	CoverageGaps   []taxonomy.PolicyArea `json:"coverage_gaps,omitempty"`

	// ExcludedRecords lists the bill IDs and issue keys of records dropped
	// as invalid during aggregation, for downstream quality auditing.
	ExcludedRecords []string  `json:"excluded_records,omitempty"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}
