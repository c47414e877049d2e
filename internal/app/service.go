// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	runqueue "github.com/veritable/scorecard/internal/adapters/mq/queue"
	workerpool "github.com/veritable/scorecard/internal/adapters/mq/worker"
	"github.com/veritable/scorecard/internal/adapters/report"
	"github.com/veritable/scorecard/internal/adapters/repository"
	"github.com/veritable/scorecard/internal/domain/dedupe"
	"github.com/veritable/scorecard/internal/domain/engine"
	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/types"
	"github.com/veritable/scorecard/pkg/logger"
	"github.com/veritable/scorecard/pkg/metrics"
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	runQueue runqueue.Queue
	engine   *engine.Engine
	pool     *workerpool.Pool

	// Profile registry, immutable after Start.
	profiles map[string]*profile.Profile

	// Source records from the most recent run per (profile, candidate),
	// retained so reports can show vote and position detail.
	evidenceMu sync.RWMutex
	evidence   map[string]runEvidence

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// runEvidence is the record set behind a stored composite score.
type runEvidence struct {
	votes     []model.VoteRecord
	positions []model.PositionRecord
}

func evidenceKey(profileName, candidateID string) string {
	return profileName + "/" + candidateID
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the run queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the score store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithProfiles registers the validated client value profiles the service
// scores against.
func WithProfiles(profiles ...*profile.Profile) Option {
	return func(s *Service) {
		for _, p := range profiles {
			if p != nil {
				s.profiles[p.Name()] = p
			}
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10000,
		dedupeSize:  50000,
		shardCount:  16,
		profiles:    make(map[string]*profile.Profile),
		evidence:    make(map[string]runEvidence),
		logger:      nil, // set when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if len(s.profiles) == 0 {
		return fmt.Errorf("%w: no client value profiles registered", profile.ErrInvalidProfile)
	}

	s.logger.Info(ctx, "starting scoring service...")

	s.store = repository.NewShardStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.runQueue = runqueue.NewInMemoryQueue(
		runqueue.WithCapacity(s.queueSize),
		runqueue.WithBufferSize(s.queueSize),
	)
	s.engine = engine.New(
		engine.WithLogger(s.logger.Named("engine")),
	)

	// The service sits between the pool and the engine so it can retain
	// each run's source records for report rendering.
	s.pool = workerpool.NewPool(s.workerCount, s.runQueue, s, s, s.store)
	s.pool.Start(ctx)

	s.started = true
	metrics.UpdateProfileCount(len(s.profiles))
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("profiles", len(s.profiles)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	// Shutdown closes the queue first so workers drain in-flight runs.
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// SeenAndRecord atomically checks if a run id was seen and records it if not.
// Returns true if the run was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRunDuplicate()
	}
	return seen
}

// Unrecord removes a run ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a run for asynchronous scoring. Returns false when the
// queue is full or closed.
func (s *Service) Enqueue(ctx context.Context, run model.Run) bool {
	ok := s.runQueue.Enqueue(ctx, run)
	if ok {
		metrics.UpdateQueueSize(s.runQueue.Len(ctx))
	}
	return ok
}

// Resolve returns the registered profile for a name. Satisfies the worker
// pool's profile resolver dependency.
func (s *Service) Resolve(ctx context.Context, name string) (*profile.Profile, error) {
	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown profile %q", profile.ErrInvalidProfile, name)
	}
	return p, nil
}

// Aggregate scores a run through the engine and, on success, retains the
// run's source records for report rendering. Satisfies the worker pool's
// aggregator dependency.
func (s *Service) Aggregate(ctx context.Context, run model.Run, p *profile.Profile) (model.CompositeScore, error) {
	score, err := s.engine.Aggregate(ctx, run, p)
	if err != nil {
		return model.CompositeScore{}, err
	}

	s.evidenceMu.Lock()
	s.evidence[evidenceKey(score.ProfileName, score.Candidate.ID)] = runEvidence{
		votes:     run.Votes,
		positions: run.Positions,
	}
	s.evidenceMu.Unlock()

	return score, nil
}

// Report renders the stored score for a candidate into the display schema,
// including the vote and position detail from the run that produced it.
func (s *Service) Report(ctx context.Context, profileName, candidateID string) (report.Report, error) {
	score, err := s.store.Get(ctx, profileName, candidateID)
	if err != nil {
		return report.Report{}, err
	}

	s.evidenceMu.RLock()
	ev := s.evidence[evidenceKey(profileName, candidateID)]
	s.evidenceMu.RUnlock()

	return report.Convert(score, ev.votes, ev.positions), nil
}

// Score returns the stored composite score for a candidate under a profile.
func (s *Service) Score(ctx context.Context, profileName, candidateID string) (model.CompositeScore, error) {
	return s.store.Get(ctx, profileName, candidateID)
}

// TopN returns the top N ranking entries for a profile.
func (s *Service) TopN(ctx context.Context, profileName string, n int) ([]types.Entry, error) {
	entries, err := s.store.TopN(ctx, profileName, n)
	if err != nil {
		return nil, err
	}

	apiEntries := make([]types.Entry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = types.Entry{
			Rank:           entry.Rank,
			CandidateID:    entry.CandidateID,
			Overall:        entry.Overall,
			Interpretation: entry.Interpretation,
		}
	}

	return apiEntries, nil
}

// Rank returns the rank and score for a candidate under a profile.
func (s *Service) Rank(ctx context.Context, profileName, candidateID string) (types.Entry, error) {
	entry, err := s.store.Rank(ctx, profileName, candidateID)
	if err != nil {
		return types.Entry{}, err
	}

	return types.Entry{
		Rank:           entry.Rank,
		CandidateID:    entry.CandidateID,
		Overall:        entry.Overall,
		Interpretation: entry.Interpretation,
	}, nil
}

// Profiles lists the registered client value profiles, sorted by name.
func (s *Service) Profiles(ctx context.Context) []types.ProfileInfo {
	infos := make([]types.ProfileInfo, 0, len(s.profiles))
	for _, p := range s.profiles {
		weights := make(map[string]float64)
		for area, w := range p.Weights() {
			weights[string(area)] = w
		}
		infos = append(infos, types.ProfileInfo{
			Name:        p.Name(),
			Description: p.Description(),
			Weights:     weights,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"profiles":    len(s.profiles),
	}

	if s.started {
		queueLen := s.runQueue.Len(ctx)
		totalCandidates := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalCandidates"] = totalCandidates

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalCandidates(totalCandidates)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
