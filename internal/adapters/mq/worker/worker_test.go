package worker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veritable/scorecard/internal/adapters/mq/worker"
	"github.com/veritable/scorecard/internal/domain/engine"
	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
	"github.com/veritable/scorecard/pkg/logger"
)

func init() {
	logger.Init()
}

func testProfile() *profile.Profile {
	p, err := profile.New(
		"economic-freedom",
		"test profile",
		map[taxonomy.PolicyArea]float64{
			taxonomy.TaxPolicy:   0.25,
			taxonomy.Regulation:  0.25,
			taxonomy.Spending:    0.20,
			taxonomy.Trade:       0.15,
			taxonomy.LaborPolicy: 0.15,
		},
		[]profile.Band{
			{Lower: -1, Upper: 0, Label: "opposes"},
			{Lower: 0, Upper: 1, Label: "aligns"},
		},
		map[string]bool{"tax_cut": true},
	)
	if err != nil {
		panic(err)
	}
	return p
}

// fakeQueue feeds a fixed set of runs then closes. All consumers share one
// channel, so each run is delivered exactly once.
type fakeQueue struct {
	ch chan worker.Run
}

func newFakeQueue(runs ...model.Run) *fakeQueue {
	ch := make(chan worker.Run, len(runs))
	for _, r := range runs {
		ch <- r
	}
	close(ch)
	return &fakeQueue{ch: ch}
}

func (q *fakeQueue) Dequeue(ctx context.Context) <-chan worker.Run {
	return q.ch
}

// fakeResolver resolves a single known profile name.
type fakeResolver struct {
	p *profile.Profile
}

func (r *fakeResolver) Resolve(ctx context.Context, name string) (*profile.Profile, error) {
	if r.p != nil && name == r.p.Name() {
		return r.p, nil
	}
	return nil, fmt.Errorf("%w: %s", profile.ErrInvalidProfile, name)
}

// fakeAggregator returns canned scores or errors per run ID.
type fakeAggregator struct {
	errs map[string]error
}

func (a *fakeAggregator) Aggregate(ctx context.Context, run model.Run, p *profile.Profile) (model.CompositeScore, error) {
	if err := a.errs[run.RunID]; err != nil {
		return model.CompositeScore{}, err
	}
	return model.CompositeScore{
		Candidate:   run.Candidate,
		ProfileName: p.Name(),
		Overall:     0.5,
	}, nil
}

// recordingUpdater captures every upserted score.
type recordingUpdater struct {
	mu     sync.Mutex
	scores []model.CompositeScore
	err    error
}

func (u *recordingUpdater) Upsert(ctx context.Context, score model.CompositeScore) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return false, u.err
	}
	u.scores = append(u.scores, score)
	return true, nil
}

func (u *recordingUpdater) stored() []model.CompositeScore {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]model.CompositeScore, len(u.scores))
	copy(out, u.scores)
	return out
}

func runFor(id, candidateID string) model.Run {
	return model.Run{
		RunID:       id,
		ProfileName: "economic-freedom",
		Candidate:   model.Candidate{ID: candidateID},
	}
}

func runWorker(q worker.Queue, r worker.ProfileResolver, a worker.Aggregator, u worker.Updater) {
	w := worker.NewInMemoryWorker(q, r, a, u, worker.WithName("worker-test"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Run(ctx)
}

func TestWorkerProcessesRuns(t *testing.T) {
	Convey("Given a worker over a queue of valid runs", t, func() {
		q := newFakeQueue(
			runFor("run-1", "cand_a"),
			runFor("run-2", "cand_b"),
		)
		updater := &recordingUpdater{}

		Convey("When the worker drains the queue", func() {
			runWorker(q, &fakeResolver{p: testProfile()}, &fakeAggregator{}, updater)

			Convey("Then every run's score is stored", func() {
				stored := updater.stored()
				So(stored, ShouldHaveLength, 2)
				So(stored[0].Candidate.ID, ShouldEqual, "cand_a")
				So(stored[1].Candidate.ID, ShouldEqual, "cand_b")
				So(stored[0].ProfileName, ShouldEqual, "economic-freedom")
			})
		})
	})
}

func TestWorkerSkipsFailedRuns(t *testing.T) {
	Convey("Given a queue where one run cannot be scored", t, func() {
		q := newFakeQueue(
			runFor("run-empty", "cand_a"),
			runFor("run-good", "cand_b"),
		)
		agg := &fakeAggregator{errs: map[string]error{
			"run-empty": fmt.Errorf("%w: no applied weight", engine.ErrInsufficientData),
		}}
		updater := &recordingUpdater{}

		Convey("When the worker drains the queue", func() {
			runWorker(q, &fakeResolver{p: testProfile()}, agg, updater)

			Convey("Then the failed run is dropped and the rest proceed", func() {
				stored := updater.stored()
				So(stored, ShouldHaveLength, 1)
				So(stored[0].Candidate.ID, ShouldEqual, "cand_b")
			})
		})
	})
}

func TestWorkerUnknownProfile(t *testing.T) {
	Convey("Given a run naming a profile the resolver does not know", t, func() {
		q := newFakeQueue(
			model.Run{RunID: "run-1", ProfileName: "no-such-profile", Candidate: model.Candidate{ID: "cand_a"}},
			runFor("run-2", "cand_b"),
		)
		updater := &recordingUpdater{}

		Convey("When the worker drains the queue", func() {
			runWorker(q, &fakeResolver{p: testProfile()}, &fakeAggregator{}, updater)

			Convey("Then no score is stored for the unknown profile", func() {
				stored := updater.stored()
				So(stored, ShouldHaveLength, 1)
				So(stored[0].Candidate.ID, ShouldEqual, "cand_b")
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	Convey("Given a running worker on an open queue", t, func() {
		q := &blockingQueue{ch: make(chan worker.Run)}
		w := worker.NewInMemoryWorker(q, &fakeResolver{p: testProfile()}, &fakeAggregator{}, &recordingUpdater{})

		ctx := context.Background()
		go w.Run(ctx)

		Convey("When the worker is shut down", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			Convey("Then it stops cleanly", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers over a shared queue", t, func() {
		q := newFakeQueue(
			runFor("run-1", "cand_a"),
			runFor("run-2", "cand_b"),
			runFor("run-3", "cand_c"),
		)
		updater := &recordingUpdater{}
		pool := worker.NewPool(3, q, &fakeResolver{p: testProfile()}, &fakeAggregator{}, updater)

		Convey("Then the pool reports its size", func() {
			So(pool.Size(), ShouldEqual, 3)
		})

		Convey("When the pool starts and shuts down", func() {
			ctx := context.Background()
			pool.Start(ctx)

			// Give workers a moment to drain the buffered queue.
			time.Sleep(100 * time.Millisecond)
			So(pool.Shutdown(ctx), ShouldBeNil)

			Convey("Then at least one worker processed runs", func() {
				So(len(updater.stored()), ShouldBeGreaterThan, 0)
			})
		})
	})
}

// blockingQueue never yields runs until closed.
type blockingQueue struct {
	ch     chan worker.Run
	closed sync.Once
}

func (q *blockingQueue) Dequeue(ctx context.Context) <-chan worker.Run {
	return q.ch
}

func (q *blockingQueue) Close() error {
	q.closed.Do(func() { close(q.ch) })
	return nil
}
