// Package profile defines client value profiles: the per-organization
// configuration of policy weights, score interpretation bands, and preferred
// outcomes that drives scoring.
//
// Conventions:
// - Profiles are immutable after construction; New copies all inputs.
// - Validation happens once, at construction. A *Profile in hand is valid.
// - A profile is shared, read-only state and safe for concurrent runs.
package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// Tolerances for profile validation.
const (
	// weightSumEpsilon bounds how far policy weights may drift from 1.0.
	weightSumEpsilon = 1e-6
	// bandJoinEpsilon bounds the gap allowed between adjacent bands.
	bandJoinEpsilon = 1e-9
)

// Score range covered by interpretation bands.
const (
	scoreMin = -1.0
	scoreMax = 1.0
)

// Band labels one half-open interval [Lower, Upper) of the score range.
// The band that ends at the top of the range is closed at Upper so the
// maximum score still maps to a label.
type Band struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Label string  `json:"label"`
}

// Profile is one organization's value configuration. Fields are unexported;
// construct via New and read through accessors.
type Profile struct {
	name        string
	description string
	weights     map[taxonomy.PolicyArea]float64
	bands       []Band
	preferred   map[string]bool
}

// New validates and constructs a Profile. It fails with ErrInvalidProfile
// when weights do not sum to 1.0 within tolerance, any weight is negative,
// or the interpretation bands do not cover [-1, 1] exactly without overlap.
func New(name, description string, weights map[taxonomy.PolicyArea]float64, bands []Band, preferred map[string]bool) (*Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing profile name", ErrInvalidProfile)
	}
	if err := validateWeights(name, weights); err != nil {
		return nil, err
	}
	sorted, err := validateBands(name, bands)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		name:        name,
		description: description,
		weights:     make(map[taxonomy.PolicyArea]float64, len(weights)),
		bands:       sorted,
		preferred:   make(map[string]bool, len(preferred)),
	}
	for area, w := range weights {
		p.weights[area] = w
	}
	for issue, outcome := range preferred {
		p.preferred[issue] = outcome
	}
	return p, nil
}

func validateWeights(name string, weights map[taxonomy.PolicyArea]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: profile %s: no policy weights", ErrInvalidProfile, name)
	}
	sum := 0.0
	for area, w := range weights {
		if !area.Valid() {
			return fmt.Errorf("%w: profile %s: weight for unknown policy area %q", ErrInvalidProfile, name, string(area))
		}
		if w < 0 {
			return fmt.Errorf("%w: profile %s: negative weight %.4f for %s", ErrInvalidProfile, name, w, area)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return fmt.Errorf("%w: profile %s: weights sum to %.6f, must sum to 1.0", ErrInvalidProfile, name, sum)
	}
	return nil
}

// validateBands checks exhaustiveness and non-overlap over [-1, 1] and
// returns the bands sorted by lower bound.
func validateBands(name string, bands []Band) ([]Band, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: profile %s: no interpretation bands", ErrInvalidProfile, name)
	}
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lower < sorted[j].Lower })

	for i, b := range sorted {
		if b.Label == "" {
			return nil, fmt.Errorf("%w: profile %s: band [%.2f,%.2f) has no label", ErrInvalidProfile, name, b.Lower, b.Upper)
		}
		if b.Upper <= b.Lower {
			return nil, fmt.Errorf("%w: profile %s: band %q is empty or inverted", ErrInvalidProfile, name, b.Label)
		}
		if i == 0 {
			continue
		}
		gap := b.Lower - sorted[i-1].Upper
		if gap > bandJoinEpsilon {
			return nil, fmt.Errorf("%w: profile %s: gap between bands %q and %q", ErrInvalidProfile, name, sorted[i-1].Label, b.Label)
		}
		if gap < -bandJoinEpsilon {
			return nil, fmt.Errorf("%w: profile %s: bands %q and %q overlap", ErrInvalidProfile, name, sorted[i-1].Label, b.Label)
		}
	}
	if math.Abs(sorted[0].Lower-scoreMin) > bandJoinEpsilon {
		return nil, fmt.Errorf("%w: profile %s: bands start at %.4f, must start at %.1f", ErrInvalidProfile, name, sorted[0].Lower, scoreMin)
	}
	last := sorted[len(sorted)-1]
	if math.Abs(last.Upper-scoreMax) > bandJoinEpsilon {
		return nil, fmt.Errorf("%w: profile %s: bands end at %.4f, must end at %.1f", ErrInvalidProfile, name, last.Upper, scoreMax)
	}
	return sorted, nil
}

// Name returns the profile name.
func (p *Profile) Name() string { return p.name }

// Description returns the profile description.
func (p *Profile) Description() string { return p.description }

// Weight returns the weight configured for area and whether one exists.
// A missing area is not an error; the engine treats it as zero weight and
// surfaces the area as a coverage gap.
func (p *Profile) Weight(area taxonomy.PolicyArea) (float64, bool) {
	w, ok := p.weights[area]
	return w, ok
}

// Weights returns a copy of the policy weight map.
func (p *Profile) Weights() map[taxonomy.PolicyArea]float64 {
	out := make(map[taxonomy.PolicyArea]float64, len(p.weights))
	for area, w := range p.weights {
		out[area] = w
	}
	return out
}

// Bands returns a copy of the interpretation bands, sorted by lower bound.
func (p *Profile) Bands() []Band {
	out := make([]Band, len(p.bands))
	copy(out, p.bands)
	return out
}

// PreferredOutcome returns the polarity configured for an issue key: true
// means the client wants the measure to pass. The second return is false
// when the profile takes no position on the issue.
func (p *Profile) PreferredOutcome(issue string) (bool, bool) {
	outcome, ok := p.preferred[issue]
	return outcome, ok
}

// Label maps a normalized score onto its interpretation band. Bands are
// half-open [Lower, Upper); the topmost band includes its upper bound.
func (p *Profile) Label(score float64) (string, error) {
	for i, b := range p.bands {
		if score < b.Lower {
			break
		}
		if score < b.Upper {
			return b.Label, nil
		}
		if i == len(p.bands)-1 && score <= b.Upper {
			return b.Label, nil
		}
	}
	return "", fmt.Errorf("%w: profile %s: score %.4f outside banded range", ErrInvalidProfile, p.name, score)
}
