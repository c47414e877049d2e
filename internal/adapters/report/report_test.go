package report_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veritable/scorecard/internal/adapters/report"
	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

func compositeFixture(overall float64) model.CompositeScore {
	return model.CompositeScore{
		Candidate: model.Candidate{
			ID:       "cand_smith_2026",
			FullName: "Jordan Smith",
			Office:   "State Senate",
			Party:    "Independent",
			District: "District 12",
		},
		ProfileName:    "economic-freedom",
		Overall:        overall,
		Interpretation: "Generally supports free markets",
		EvaluatedAt:    time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC),
	}
}

func TestConvert(t *testing.T) {
	Convey("Given a composite score with source records", t, func() {
		votes := []model.VoteRecord{
			{
				BillID:      "hb-101",
				BillName:    "Small Business Tax Relief Act",
				Date:        time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
				Result:      taxonomy.Yea,
				Area:        taxonomy.TaxPolicy,
				IssueKey:    "tax_cut",
				Description: "Reduces state business income tax",
			},
			{
				BillID:   "hb-202",
				BillName: "Trade Barrier Act",
				Date:     time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC),
				Result:   taxonomy.Nay,
				Area:     taxonomy.Trade,
				IssueKey: "protectionism",
			},
			{
				BillID:   "hb-303",
				BillName: "Budget Resolution",
				Date:     time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC),
				Result:   taxonomy.Abstain,
				Area:     taxonomy.Spending,
				IssueKey: "spending_cut",
			},
		}
		positions := []model.PositionRecord{
			{IssueKey: "deregulation", Area: taxonomy.Regulation, Stance: 0.8},
			{IssueKey: "new_regulation", Area: taxonomy.LaborPolicy, Stance: -0.4},
			{IssueKey: "free_trade", Area: taxonomy.Trade, Stance: 0},
		}

		Convey("When the score is converted", func() {
			r := report.Convert(compositeFixture(0.42), votes, positions)

			Convey("Then the candidate block carries the rescaled score", func() {
				So(r.Candidate.ID, ShouldEqual, "cand_smith_2026")
				So(r.Candidate.Name, ShouldEqual, "Jordan Smith")
				So(r.Candidate.Office, ShouldEqual, "State Senate, District 12")
				So(r.Candidate.Score, ShouldEqual, 71)
				So(r.Candidate.ScoreLabel, ShouldEqual, "Generally supports free markets")
				So(r.Candidate.ScoreColor, ShouldEqual, "info")
			})

			Convey("Then positions map to icon, title, and stance text", func() {
				So(r.Positions, ShouldHaveLength, 3)
				So(r.Positions[0].ID, ShouldEqual, "p0")
				So(r.Positions[0].Icon, ShouldEqual, "briefcase")
				So(r.Positions[0].Title, ShouldEqual, "Regulation")
				So(r.Positions[0].Stance, ShouldEqual, "Supports")
				So(r.Positions[1].Icon, ShouldEqual, "users")
				So(r.Positions[1].Title, ShouldEqual, "Labor Policy")
				So(r.Positions[1].Stance, ShouldEqual, "Opposes")
				So(r.Positions[2].Stance, ShouldEqual, "Neutral")
			})

			Convey("Then votes map to dated rows with result colors", func() {
				So(r.Votes, ShouldHaveLength, 3)
				So(r.Votes[0].ID, ShouldEqual, "v0")
				So(r.Votes[0].Bill, ShouldEqual, "Small Business Tax Relief Act")
				So(r.Votes[0].Date, ShouldEqual, "2026-03-10")
				So(r.Votes[0].Note, ShouldEqual, "Reduces state business income tax")
				So(r.Votes[0].ResultLabel, ShouldEqual, "yea")
				So(r.Votes[0].ResultColor, ShouldEqual, "success")
				So(r.Votes[1].ResultColor, ShouldEqual, "danger")
				So(r.Votes[2].ResultColor, ShouldEqual, "warning")
			})

			Convey("Then the updated line uses the evaluation date", func() {
				So(r.UpdatedText, ShouldEqual, "Updated August 24, 2026")
			})
		})

		Convey("When there are no source records", func() {
			r := report.Convert(compositeFixture(0.42), nil, nil)

			Convey("Then positions and votes are empty, not nil", func() {
				So(r.Positions, ShouldNotBeNil)
				So(r.Positions, ShouldBeEmpty)
				So(r.Votes, ShouldNotBeNil)
				So(r.Votes, ShouldBeEmpty)
			})
		})
	})
}

func TestScoreColors(t *testing.T) {
	Convey("Given overall scores across the range", t, func() {
		cases := []struct {
			overall float64
			color   string
		}{
			{0.9, "success"},
			{0.6, "success"},
			{0.4, "info"},
			{0.2, "info"},
			{0.0, "warning"},
			{-0.5, "warning"},
			{-0.7, "danger"},
			{-1.0, "danger"},
		}

		Convey("Then each maps to its dashboard color token", func() {
			for _, c := range cases {
				r := report.Convert(compositeFixture(c.overall), nil, nil)
				So(r.Candidate.ScoreColor, ShouldEqual, c.color)
			}
		})
	})
}

func TestDisplayScoreRescaling(t *testing.T) {
	Convey("Given the [-1, 1] to 0-100 rescaling", t, func() {
		Convey("Then the endpoints and midpoint are exact", func() {
			So(report.Convert(compositeFixture(-1), nil, nil).Candidate.Score, ShouldEqual, 0)
			So(report.Convert(compositeFixture(0), nil, nil).Candidate.Score, ShouldEqual, 50)
			So(report.Convert(compositeFixture(1), nil, nil).Candidate.Score, ShouldEqual, 100)
		})
	})
}
