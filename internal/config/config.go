// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"

	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RunQueueSize bounds the in-memory run queue.
	RunQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the run deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the score store.
	ShardCount int `koanf:"shard_count"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// Profiles declares the client value profiles the service scores
	// against. Every profile is validated at startup; a bad profile is
	// a fatal configuration error.
	Profiles []ProfileConfig `koanf:"profiles"`
}

// ProfileConfig is the on-disk shape of one client value profile.
type ProfileConfig struct {
	Name        string `koanf:"name"`
	Description string `koanf:"description"`

	// Weights maps policy areas to their relative importance. They must
	// sum to 1.0.
	Weights map[string]float64 `koanf:"weights"`

	// Bands partitions [-1, 1] into labeled interpretation ranges.
	Bands []BandConfig `koanf:"bands"`

	// PreferredOutcomes maps issue keys to the client's preferred vote
	// direction: true means a yea vote aligns with the client.
	PreferredOutcomes map[string]bool `koanf:"preferred_outcomes"`
}

// BandConfig is the on-disk shape of one interpretation band.
type BandConfig struct {
	Lower float64 `koanf:"lower"`
	Upper float64 `koanf:"upper"`
	Label string  `koanf:"label"`
}

// Build validates the declared profile and returns the domain object.
func (pc ProfileConfig) Build() (*profile.Profile, error) {
	weights := make(map[taxonomy.PolicyArea]float64, len(pc.Weights))
	for area, w := range pc.Weights {
		parsed, err := taxonomy.ParsePolicyArea(area)
		if err != nil {
			return nil, fmt.Errorf("%w: profile %s: %w", ErrInvalidConfig, pc.Name, err)
		}
		weights[parsed] = w
	}

	bands := make([]profile.Band, 0, len(pc.Bands))
	for _, b := range pc.Bands {
		bands = append(bands, profile.Band{Lower: b.Lower, Upper: b.Upper, Label: b.Label})
	}

	p, err := profile.New(pc.Name, pc.Description, weights, bands, pc.PreferredOutcomes)
	if err != nil {
		return nil, fmt.Errorf("%w: profile %s: %w", ErrInvalidConfig, pc.Name, err)
	}
	return p, nil
}

// New creates a Config with defaults, including the stock economic-freedom
// profile so a bare deployment can score runs out of the box.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		RunQueueSize:    10_000,
		WorkerCount:     runtime.NumCPU() * 4,
		DedupeSize:      100_000,
		ShardCount:      16,
		MaxRankingLimit: 100,
		Profiles: []ProfileConfig{
			{
				Name:        "economic-freedom",
				Description: "Scores candidates on fiscal discipline and market-oriented policy",
				Weights: map[string]float64{
					"tax_policy":   0.25,
					"regulation":   0.25,
					"spending":     0.20,
					"trade":        0.15,
					"labor_policy": 0.15,
				},
				Bands: []BandConfig{
					{Lower: -1.0, Upper: -0.6, Label: "Opposes free market principles"},
					{Lower: -0.6, Upper: -0.2, Label: "Tends toward government intervention"},
					{Lower: -0.2, Upper: 0.2, Label: "Mixed record on economic issues"},
					{Lower: 0.2, Upper: 0.6, Label: "Generally supports free markets"},
					{Lower: 0.6, Upper: 1.0, Label: "Champion of economic freedom"},
				},
				PreferredOutcomes: map[string]bool{
					"tax_cut":           true,
					"tax_increase":      false,
					"deregulation":      true,
					"new_regulation":    false,
					"spending_cut":      true,
					"spending_increase": false,
					"free_trade":        true,
					"protectionism":     false,
				},
			},
		},
	}
}
