package profile

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

func economicWeights() map[taxonomy.PolicyArea]float64 {
	return map[taxonomy.PolicyArea]float64{
		taxonomy.TaxPolicy:   0.25,
		taxonomy.Regulation:  0.25,
		taxonomy.Spending:    0.20,
		taxonomy.Trade:       0.15,
		taxonomy.LaborPolicy: 0.15,
	}
}

func fiveBands() []Band {
	return []Band{
		{Lower: -1.0, Upper: -0.6, Label: "Opposes free market principles"},
		{Lower: -0.6, Upper: -0.2, Label: "Leans against economic freedom"},
		{Lower: -0.2, Upper: 0.2, Label: "Mixed record"},
		{Lower: 0.2, Upper: 0.6, Label: "Aligns with economic freedom"},
		{Lower: 0.6, Upper: 1.0, Label: "Champion of economic freedom"},
	}
}

func preferredOutcomes() map[string]bool {
	return map[string]bool{
		"tax_cut":      true,
		"tax_increase": false,
	}
}

func TestProfileConstruction(t *testing.T) {
	Convey("Given profile inputs", t, func() {
		Convey("When all inputs are valid", func() {
			p, err := New("economic-freedom", "stock profile", economicWeights(), fiveBands(), preferredOutcomes())

			Convey("Then construction succeeds", func() {
				So(err, ShouldBeNil)
				So(p, ShouldNotBeNil)
				So(p.Name(), ShouldEqual, "economic-freedom")
				So(p.Description(), ShouldEqual, "stock profile")
			})

			Convey("And the accessors return copies", func() {
				w := p.Weights()
				w[taxonomy.TaxPolicy] = 99
				again, _ := p.Weight(taxonomy.TaxPolicy)
				So(again, ShouldEqual, 0.25)

				b := p.Bands()
				b[0].Label = "mutated"
				So(p.Bands()[0].Label, ShouldEqual, "Opposes free market principles")
			})

			Convey("And mutating the original inputs does not leak in", func() {
				weights := economicWeights()
				preferred := preferredOutcomes()
				q, err := New("copy-check", "", weights, fiveBands(), preferred)
				So(err, ShouldBeNil)

				weights[taxonomy.TaxPolicy] = 0
				preferred["tax_cut"] = false

				w, _ := q.Weight(taxonomy.TaxPolicy)
				So(w, ShouldEqual, 0.25)
				outcome, ok := q.PreferredOutcome("tax_cut")
				So(ok, ShouldBeTrue)
				So(outcome, ShouldBeTrue)
			})
		})

		Convey("When the name is missing", func() {
			_, err := New("", "", economicWeights(), fiveBands(), nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When weights do not sum to 1.0", func() {
			weights := economicWeights()
			weights[taxonomy.Trade] = 0.30
			_, err := New("bad-sum", "", weights, fiveBands(), nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When a weight is negative", func() {
			weights := map[taxonomy.PolicyArea]float64{
				taxonomy.TaxPolicy:  1.25,
				taxonomy.Regulation: -0.25,
			}
			_, err := New("negative", "", weights, fiveBands(), nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When a weight names an unknown area", func() {
			weights := map[taxonomy.PolicyArea]float64{
				"foreign_policy":   0.5,
				taxonomy.TaxPolicy: 0.5,
			}
			_, err := New("unknown-area", "", weights, fiveBands(), nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When weights are empty", func() {
			_, err := New("empty", "", nil, fiveBands(), nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When weights sum within epsilon of 1.0", func() {
			weights := map[taxonomy.PolicyArea]float64{
				taxonomy.TaxPolicy:   0.1,
				taxonomy.Regulation:  0.2,
				taxonomy.Spending:    0.3,
				taxonomy.Trade:       0.15,
				taxonomy.LaborPolicy: 0.25,
			}
			_, err := New("float-sum", "", weights, fiveBands(), nil)

			Convey("Then floating point drift is tolerated", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestBandValidation(t *testing.T) {
	Convey("Given interpretation bands", t, func() {
		weights := economicWeights()

		Convey("When bands leave a gap", func() {
			bands := []Band{
				{Lower: -1.0, Upper: -0.2, Label: "low"},
				{Lower: 0.0, Upper: 1.0, Label: "high"},
			}
			_, err := New("gap", "", weights, bands, nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When bands overlap", func() {
			bands := []Band{
				{Lower: -1.0, Upper: 0.2, Label: "low"},
				{Lower: 0.0, Upper: 1.0, Label: "high"},
			}
			_, err := New("overlap", "", weights, bands, nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When bands do not start at -1", func() {
			bands := []Band{
				{Lower: -0.5, Upper: 0.0, Label: "low"},
				{Lower: 0.0, Upper: 1.0, Label: "high"},
			}
			_, err := New("short-start", "", weights, bands, nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When bands do not end at 1", func() {
			bands := []Band{
				{Lower: -1.0, Upper: 0.0, Label: "low"},
				{Lower: 0.0, Upper: 0.5, Label: "high"},
			}
			_, err := New("short-end", "", weights, bands, nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When a band is empty or inverted", func() {
			bands := []Band{
				{Lower: -1.0, Upper: -1.0, Label: "empty"},
				{Lower: -1.0, Upper: 1.0, Label: "rest"},
			}
			_, err := New("inverted", "", weights, bands, nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When a band has no label", func() {
			bands := []Band{
				{Lower: -1.0, Upper: 0.0, Label: ""},
				{Lower: 0.0, Upper: 1.0, Label: "high"},
			}
			_, err := New("unlabeled", "", weights, bands, nil)

			Convey("Then construction fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})

		Convey("When bands are supplied out of order", func() {
			bands := []Band{
				{Lower: 0.0, Upper: 1.0, Label: "high"},
				{Lower: -1.0, Upper: 0.0, Label: "low"},
			}
			p, err := New("unsorted", "", weights, bands, nil)

			Convey("Then they are sorted by lower bound", func() {
				So(err, ShouldBeNil)
				sorted := p.Bands()
				So(sorted[0].Label, ShouldEqual, "low")
				So(sorted[1].Label, ShouldEqual, "high")
			})
		})
	})
}

func TestBandLookup(t *testing.T) {
	Convey("Given a profile with five bands", t, func() {
		p, err := New("economic-freedom", "", economicWeights(), fiveBands(), preferredOutcomes())
		So(err, ShouldBeNil)

		Convey("When looking up a score inside a band", func() {
			label, err := p.Label(0.0)

			Convey("Then the covering band's label is returned", func() {
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "Mixed record")
			})
		})

		Convey("When looking up a score on a band boundary", func() {
			label, err := p.Label(0.2)

			Convey("Then the boundary belongs to the upper band", func() {
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "Aligns with economic freedom")
			})
		})

		Convey("When looking up the extremes", func() {
			low, lerr := p.Label(-1.0)
			high, herr := p.Label(1.0)

			Convey("Then both endpoints map to a band", func() {
				So(lerr, ShouldBeNil)
				So(low, ShouldEqual, "Opposes free market principles")
				So(herr, ShouldBeNil)
				So(high, ShouldEqual, "Champion of economic freedom")
			})
		})

		Convey("When looking up a score outside the range", func() {
			_, err := p.Label(1.5)

			Convey("Then lookup fails with ErrInvalidProfile", func() {
				So(errors.Is(err, ErrInvalidProfile), ShouldBeTrue)
			})
		})
	})
}

func TestPreferredOutcomes(t *testing.T) {
	Convey("Given a profile with declared outcomes", t, func() {
		p, err := New("economic-freedom", "", economicWeights(), fiveBands(), preferredOutcomes())
		So(err, ShouldBeNil)

		Convey("When querying a declared issue", func() {
			outcome, ok := p.PreferredOutcome("tax_increase")

			Convey("Then the declared polarity is returned", func() {
				So(ok, ShouldBeTrue)
				So(outcome, ShouldBeFalse)
			})
		})

		Convey("When querying an undeclared issue", func() {
			_, ok := p.PreferredOutcome("ballot_access")

			Convey("Then the profile reports no position", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
