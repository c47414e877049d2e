// Package report converts composite scores into the flattened display
// schema consumed by downstream research dashboards. The schema predates
// this service, so field names and value conventions are kept as-is.
package report

import (
	"fmt"
	"strings"

	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// Candidate is the display header block.
type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Office     string  `json:"office"`
	Party      string  `json:"party"`
	Score      float64 `json:"score"`
	ScoreLabel string  `json:"scoreLabel"`
	ScoreColor string  `json:"scoreColor"`
}

// PositionItem is one declared-stance row.
type PositionItem struct {
	ID     string `json:"id"`
	Icon   string `json:"icon"`
	Title  string `json:"title"`
	Stance string `json:"stance"`
}

// VoteItem is one roll-call row.
type VoteItem struct {
	ID          string `json:"id"`
	Bill        string `json:"bill"`
	Date        string `json:"date"`
	Note        string `json:"note"`
	ResultLabel string `json:"resultLabel"`
	ResultColor string `json:"resultColor"`
}

// Report is the complete display document for one candidate.
type Report struct {
	Candidate   Candidate      `json:"candidate"`
	Positions   []PositionItem `json:"positions"`
	Votes       []VoteItem     `json:"votes"`
	UpdatedText string         `json:"updatedText"`
}

// Convert flattens a composite score plus the run's source records into the
// display schema. The overall score in [-1, 1] is rescaled to the 0-100
// range the dashboard renders.
func Convert(score model.CompositeScore, votes []model.VoteRecord, positions []model.PositionRecord) Report {
	r := Report{
		Candidate: Candidate{
			ID:         score.Candidate.ID,
			Name:       score.Candidate.FullName,
			Office:     officeLine(score.Candidate),
			Party:      score.Candidate.Party,
			Score:      displayScore(score.Overall),
			ScoreLabel: score.Interpretation,
			ScoreColor: scoreColor(score.Overall),
		},
		Positions:   make([]PositionItem, 0, len(positions)),
		Votes:       make([]VoteItem, 0, len(votes)),
		UpdatedText: "Updated " + score.EvaluatedAt.Format("January 2, 2006"),
	}

	for i, pos := range positions {
		r.Positions = append(r.Positions, PositionItem{
			ID:     fmt.Sprintf("p%d", i),
			Icon:   areaIcon(pos.Area),
			Title:  areaTitle(pos.Area),
			Stance: stanceText(pos.Stance),
		})
	}

	for i, v := range votes {
		r.Votes = append(r.Votes, VoteItem{
			ID:          fmt.Sprintf("v%d", i),
			Bill:        v.BillName,
			Date:        v.Date.Format("2006-01-02"),
			Note:        v.Description,
			ResultLabel: string(v.Result),
			ResultColor: resultColor(v.Result),
		})
	}

	return r
}

// displayScore rescales [-1, 1] to the dashboard's 0-100 range.
func displayScore(overall float64) float64 {
	return (overall + 1) / 2 * 100
}

// scoreColor buckets the overall score into the dashboard's color tokens.
func scoreColor(overall float64) string {
	switch {
	case overall >= 0.6:
		return "success"
	case overall >= 0.2:
		return "info"
	case overall >= -0.6:
		return "warning"
	default:
		return "danger"
	}
}

func resultColor(result taxonomy.VoteResult) string {
	switch result {
	case taxonomy.Yea:
		return "success"
	case taxonomy.Nay:
		return "danger"
	default:
		return "warning"
	}
}

func areaIcon(area taxonomy.PolicyArea) string {
	switch area {
	case taxonomy.TaxPolicy:
		return "chart"
	case taxonomy.Regulation:
		return "briefcase"
	case taxonomy.Spending:
		return "suitcase"
	case taxonomy.Trade:
		return "globe"
	case taxonomy.LaborPolicy:
		return "users"
	default:
		return "chart"
	}
}

// areaTitle turns a policy area key into its display title, e.g.
// "tax_policy" into "Tax Policy".
func areaTitle(area taxonomy.PolicyArea) string {
	words := strings.Split(string(area), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func stanceText(stance float64) string {
	switch {
	case stance > 0:
		return "Supports"
	case stance < 0:
		return "Opposes"
	default:
		return "Neutral"
	}
}

func officeLine(c model.Candidate) string {
	if c.District == "" {
		return c.Office
	}
	return c.Office + ", " + c.District
}
