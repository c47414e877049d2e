package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veritable/scorecard/internal/adapters/repository"
	"github.com/veritable/scorecard/internal/domain/model"
)

func scoreFor(candidateID, profileName string, overall float64) model.CompositeScore {
	return model.CompositeScore{
		Candidate:      model.Candidate{ID: candidateID, FullName: "Candidate " + candidateID},
		ProfileName:    profileName,
		Overall:        overall,
		Interpretation: "Mixed record on economic issues",
	}
}

func TestUpsert(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := repository.NewShardStore()
		ctx := context.Background()

		Convey("When a new score is upserted", func() {
			changed, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", 0.42))

			Convey("Then the store reports a change", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the same score is upserted twice", func() {
			_, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", 0.42))
			So(err, ShouldBeNil)
			changed, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", 0.42))

			Convey("Then the second write is a no-op", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeFalse)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a rescore produces a different overall", func() {
			_, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", 0.42))
			So(err, ShouldBeNil)
			changed, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", -0.10))

			Convey("Then the stored score is replaced", func() {
				So(err, ShouldBeNil)
				So(changed, ShouldBeTrue)
				got, err := store.Get(ctx, "economic-freedom", "cand_smith")
				So(err, ShouldBeNil)
				So(got.Overall, ShouldEqual, -0.10)
			})
		})

		Convey("When the same candidate is scored under two profiles", func() {
			_, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", 0.42))
			So(err, ShouldBeNil)
			_, err = store.Upsert(ctx, scoreFor("cand_smith", "labor-first", -0.42))
			So(err, ShouldBeNil)

			Convey("Then each profile keeps its own score", func() {
				a, err := store.Get(ctx, "economic-freedom", "cand_smith")
				So(err, ShouldBeNil)
				So(a.Overall, ShouldEqual, 0.42)

				b, err := store.Get(ctx, "labor-first", "cand_smith")
				So(err, ShouldBeNil)
				So(b.Overall, ShouldEqual, -0.42)

				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a score has no candidate ID", func() {
			_, err := store.Upsert(ctx, scoreFor("", "economic-freedom", 0.1))

			Convey("Then the write is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestGet(t *testing.T) {
	Convey("Given a store with one score", t, func() {
		store := repository.NewShardStore()
		ctx := context.Background()
		_, err := store.Upsert(ctx, scoreFor("cand_smith", "economic-freedom", 0.42))
		So(err, ShouldBeNil)

		Convey("When an unscored pair is requested", func() {
			_, err := store.Get(ctx, "economic-freedom", "cand_unknown")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the wrong profile is requested", func() {
			_, err := store.Get(ctx, "labor-first", "cand_smith")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestTopN(t *testing.T) {
	Convey("Given a store with several scored candidates", t, func() {
		store := repository.NewShardStore(repository.WithShardCount(4))
		ctx := context.Background()

		scores := map[string]float64{
			"cand_adams": 0.80,
			"cand_baker": -0.30,
			"cand_clark": 0.80,
			"cand_diaz":  0.10,
			"cand_evans": -0.95,
		}
		for id, overall := range scores {
			_, err := store.Upsert(ctx, scoreFor(id, "economic-freedom", overall))
			So(err, ShouldBeNil)
		}

		Convey("When the full ranking is requested", func() {
			entries, err := store.TopN(ctx, "economic-freedom", 10)
			So(err, ShouldBeNil)

			Convey("Then entries are ordered by score desc, ID asc on ties", func() {
				So(entries, ShouldHaveLength, 5)
				So(entries[0].CandidateID, ShouldEqual, "cand_adams")
				So(entries[1].CandidateID, ShouldEqual, "cand_clark")
				So(entries[2].CandidateID, ShouldEqual, "cand_diaz")
				So(entries[3].CandidateID, ShouldEqual, "cand_baker")
				So(entries[4].CandidateID, ShouldEqual, "cand_evans")
			})

			Convey("And tied candidates share a rank", func() {
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 1)
				So(entries[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When a limit smaller than the set is requested", func() {
			entries, err := store.TopN(ctx, "economic-freedom", 2)
			So(err, ShouldBeNil)

			Convey("Then only the top entries are returned", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Overall, ShouldEqual, 0.80)
			})
		})

		Convey("When a non-positive limit is requested", func() {
			_, err := store.TopN(ctx, "economic-freedom", 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When an unknown profile is requested", func() {
			entries, err := store.TopN(ctx, "no-such-profile", 10)

			Convey("Then the ranking is empty", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given a store with a small ranking", t, func() {
		store := repository.NewShardStore()
		ctx := context.Background()

		for i, id := range []string{"cand_adams", "cand_baker", "cand_clark"} {
			_, err := store.Upsert(ctx, scoreFor(id, "economic-freedom", 1.0-float64(i)*0.5))
			So(err, ShouldBeNil)
		}

		Convey("When a scored candidate's rank is requested", func() {
			entry, err := store.Rank(ctx, "economic-freedom", "cand_baker")

			Convey("Then the rank reflects the ordering", func() {
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)
				So(entry.Overall, ShouldEqual, 0.5)
				So(entry.Profile, ShouldEqual, "economic-freedom")
			})
		})

		Convey("When an unscored candidate's rank is requested", func() {
			_, err := store.Rank(ctx, "economic-freedom", "cand_nobody")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentUpserts(t *testing.T) {
	Convey("Given concurrent writers across shards", t, func() {
		store := repository.NewShardStore(repository.WithShardCount(8))
		ctx := context.Background()

		const writers = 8
		const perWriter = 50

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					id := fmt.Sprintf("cand_%d_%d", w, i)
					_, _ = store.Upsert(ctx, scoreFor(id, "economic-freedom", float64(i)/perWriter))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every candidate is stored exactly once", func() {
			So(store.Count(ctx), ShouldEqual, writers*perWriter)
			entries, err := store.TopN(ctx, "economic-freedom", writers*perWriter)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, writers*perWriter)
		})
	})
}
