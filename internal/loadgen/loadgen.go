// Package loadgen generates synthetic scoring runs and drives them through
// a running service instance, then verifies the resulting rankings. It is
// the backing for cmd/seed.
package loadgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Config holds configuration for a seeding session.
type Config struct {
	BaseURL string        // Base URL of the service
	NumRuns int           // Number of runs to generate
	Profile string        // Client value profile to score against
	TopN    int           // Number of top entries to fetch for verification
	Workers int           // Number of concurrent submitters
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable verbose logging
}

// Stats holds session statistics.
type Stats struct {
	RunsGenerated  int
	RunsSubmitted  int
	RunsSuccessful int
	RunsDuplicate  int
	RunsFailed     int
	RankingEntries int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Wire types mirror the service's POST /runs schema.

type runPayload struct {
	RunID     string            `json:"run_id"`
	Profile   string            `json:"profile"`
	Candidate candidatePayload  `json:"candidate"`
	Votes     []votePayload     `json:"votes"`
	Positions []positionPayload `json:"positions"`
}

type candidatePayload struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Office   string `json:"office"`
	Party    string `json:"party"`
	District string `json:"district"`
}

type votePayload struct {
	BillID       string `json:"bill_id"`
	BillName     string `json:"bill_name"`
	Date         string `json:"date"`
	Result       string `json:"result"`
	Area         string `json:"area"`
	IssueKey     string `json:"issue_key"`
	Description  string `json:"description"`
	SourceURL    string `json:"source_url"`
	Verification string `json:"verification"`
}

type positionPayload struct {
	IssueKey        string   `json:"issue_key"`
	Area            string   `json:"area"`
	Stance          float64  `json:"stance"`
	EvidenceSources []string `json:"evidence_sources"`
	Confidence      float64  `json:"confidence"`
	Verification    string   `json:"verification"`
}

type entryPayload struct {
	Rank           int     `json:"rank"`
	CandidateID    string  `json:"candidate_id"`
	Overall        float64 `json:"overall"`
	Interpretation string  `json:"interpretation_label"`
}

type ackPayload struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Issue keys paired with the policy area they fall under, matching the
// stock economic-freedom profile.
var issueCatalog = []struct {
	issueKey string
	area     string
}{
	{"tax_cut", "tax_policy"},
	{"tax_increase", "tax_policy"},
	{"deregulation", "regulation"},
	{"new_regulation", "regulation"},
	{"spending_cut", "spending"},
	{"spending_increase", "spending"},
	{"free_trade", "trade"},
	{"protectionism", "trade"},
}

var voteResults = []string{"yea", "nay", "abstain", "absent"}
var verifications = []string{"verified", "verified", "disputed", "unverified"}
var parties = []string{"Independent", "Federalist", "Unionist"}

const randomDivisor = 1_000_000

// randomFloat returns a random float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomDivisor))
	return float64(n.Int64()) / float64(randomDivisor)
}

func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateRuns creates synthetic runs, one candidate each, with a random
// mix of votes and positions across the issue catalog.
func generateRuns(cfg *Config) []runPayload {
	runs := make([]runPayload, cfg.NumRuns)
	for i := range runs {
		candidateID := "cand_" + uuid.New().String()
		voteCount := 2 + randomIndex(6)
		positionCount := 1 + randomIndex(4)

		votes := make([]votePayload, voteCount)
		for v := range votes {
			issue := issueCatalog[randomIndex(len(issueCatalog))]
			votes[v] = votePayload{
				BillID:       fmt.Sprintf("bill-%d-%d", i, v),
				BillName:     fmt.Sprintf("Act %d of session %d", v+1, i%8+1),
				Date:         time.Now().AddDate(0, -randomIndex(24), 0).Format("2006-01-02"),
				Result:       voteResults[randomIndex(len(voteResults))],
				Area:         issue.area,
				IssueKey:     issue.issueKey,
				Description:  "synthetic roll call",
				SourceURL:    "https://legislature.example.gov/" + uuid.New().String(),
				Verification: verifications[randomIndex(len(verifications))],
			}
		}

		positions := make([]positionPayload, positionCount)
		for p := range positions {
			issue := issueCatalog[randomIndex(len(issueCatalog))]
			positions[p] = positionPayload{
				IssueKey:        issue.issueKey,
				Area:            issue.area,
				Stance:          randomFloat()*2 - 1,
				EvidenceSources: []string{"https://press.example.org/" + uuid.New().String()},
				Confidence:      0.5 + randomFloat()*0.5,
				Verification:    verifications[randomIndex(len(verifications))],
			}
		}

		runs[i] = runPayload{
			RunID:   uuid.New().String(),
			Profile: cfg.Profile,
			Candidate: candidatePayload{
				ID:       candidateID,
				FullName: fmt.Sprintf("Candidate %d", i),
				Office:   "State Senate",
				Party:    parties[randomIndex(len(parties))],
				District: fmt.Sprintf("District %d", i%40+1),
			},
			Votes:     votes,
			Positions: positions,
		}
	}
	return runs
}
