// Package types contains common types used across the application
package types

// Entry represents one candidate's position in a per-profile ranking.
type Entry struct {
	Rank           int     `json:"rank"`
	CandidateID    string  `json:"candidate_id"`
	Overall        float64 `json:"overall"`
	Interpretation string  `json:"interpretation_label"`
}

// ProfileInfo is the read shape for a registered client value profile.
type ProfileInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Weights     map[string]float64 `json:"policy_weights"`
}
