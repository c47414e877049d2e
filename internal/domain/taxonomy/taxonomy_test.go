package taxonomy

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPolicyAreas(t *testing.T) {
	Convey("Given the fixed policy areas", t, func() {
		Convey("When listing them", func() {
			areas := Areas()

			Convey("Then they come back in canonical order", func() {
				So(areas, ShouldResemble, []PolicyArea{
					TaxPolicy,
					Regulation,
					Spending,
					Trade,
					LaborPolicy,
				})
			})

			Convey("And every listed area is valid", func() {
				for _, a := range areas {
					So(a.Valid(), ShouldBeTrue)
				}
			})
		})

		Convey("When parsing a known label", func() {
			a, err := ParsePolicyArea("labor_policy")

			Convey("Then it resolves to the matching area", func() {
				So(err, ShouldBeNil)
				So(a, ShouldEqual, LaborPolicy)
			})
		})

		Convey("When parsing an unknown label", func() {
			_, err := ParsePolicyArea("foreign_policy")

			Convey("Then it fails with ErrUnknownPolicyArea", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrUnknownPolicyArea), ShouldBeTrue)
			})
		})

		Convey("When checking an empty label", func() {
			Convey("Then it is not valid", func() {
				So(PolicyArea("").Valid(), ShouldBeFalse)
			})
		})
	})
}

func TestVoteResults(t *testing.T) {
	Convey("Given the recognized vote results", t, func() {
		Convey("When validating each result", func() {
			Convey("Then all four outcomes are accepted", func() {
				for _, r := range []VoteResult{Yea, Nay, Abstain, Absent} {
					So(r.Valid(), ShouldBeTrue)
				}
			})
		})

		Convey("When parsing a known label", func() {
			r, err := ParseVoteResult("abstain")

			Convey("Then it resolves correctly", func() {
				So(err, ShouldBeNil)
				So(r, ShouldEqual, Abstain)
			})
		})

		Convey("When parsing an unknown label", func() {
			_, err := ParseVoteResult("present")

			Convey("Then it fails with ErrUnknownVoteResult", func() {
				So(errors.Is(err, ErrUnknownVoteResult), ShouldBeTrue)
			})
		})

		Convey("When validating a case mismatch", func() {
			Convey("Then labels are case sensitive", func() {
				So(VoteResult("Yea").Valid(), ShouldBeFalse)
			})
		})
	})
}

func TestVerificationStatuses(t *testing.T) {
	Convey("Given the recognized verification statuses", t, func() {
		Convey("When validating each status", func() {
			Convey("Then all three statuses are accepted", func() {
				for _, v := range []VerificationStatus{Verified, Disputed, Unverified} {
					So(v.Valid(), ShouldBeTrue)
				}
			})
		})

		Convey("When parsing a known label", func() {
			v, err := ParseVerificationStatus("disputed")

			Convey("Then it resolves correctly", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, Disputed)
			})
		})

		Convey("When parsing an unknown label", func() {
			_, err := ParseVerificationStatus("confirmed")

			Convey("Then it fails with ErrUnknownVerificationStatus", func() {
				So(errors.Is(err, ErrUnknownVerificationStatus), ShouldBeTrue)
			})
		})
	})
}
