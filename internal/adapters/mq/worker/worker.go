// Package worker defines worker contracts for asynchronous run scoring and
// score updates.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/veritable/scorecard/internal/domain/engine"
	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/pkg/logger"
	"github.com/veritable/scorecard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Run abstracts what workers read off the queue.
type Run = model.Run

// ProfileResolver resolves a profile name to its validated profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, name string) (*profile.Profile, error)
}

// Aggregator computes a composite score for a run under a profile.
type Aggregator interface {
	Aggregate(ctx context.Context, run model.Run, p *profile.Profile) (model.CompositeScore, error)
}

// Updater persists a computed composite score.
type Updater interface {
	Upsert(ctx context.Context, score model.CompositeScore) (bool, error)
}

// Queue defines how workers receive runs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Run
}

// Worker processes runs and writes score updates using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining runs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing runs.
type InMemoryWorker struct {
	queue      Queue
	profiles   ProfileResolver
	aggregator Aggregator
	updater    Updater
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, profiles ProfileResolver, aggregator Aggregator, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		profiles:   profiles,
		aggregator: aggregator,
		updater:    updater,
		name:       "worker", // default name
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	runChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case run, ok := <-runChan:
			if !ok {
				// Channel closed, worker should stop.
				return
			}

			if err := w.processRun(ctx, run); err != nil {
				w.logger.Error(ctx, "error processing run", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRun resolves the run's profile, aggregates its records, and stores
// the resulting composite score.
func (w *InMemoryWorker) processRun(ctx context.Context, run Run) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	p, err := w.profiles.Resolve(ctx, run.ProfileName)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "unknown_profile")
		w.logger.Error(ctx, "profile resolution failed for run",
			logger.String("runID", run.RunID),
			logger.String("profile", run.ProfileName),
			logger.Error(err),
		)
		return fmt.Errorf("resolve profile for run %s: %w", run.RunID, err)
	}

	score, err := w.aggregator.Aggregate(ctx, run, p)
	if err != nil {
		if errors.Is(err, engine.ErrInsufficientData) {
			// Fatal for this run only. The run is consumed, no score is
			// stored, and the worker moves on.
			w.logger.Warn(ctx, "run produced no scoreable data",
				logger.String("runID", run.RunID),
				logger.String("candidateID", run.Candidate.ID),
			)
			return nil
		}
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "aggregation_error")
		w.logger.Error(ctx, "aggregation failed for run",
			logger.String("runID", run.RunID),
			logger.Error(err),
		)
		return fmt.Errorf("aggregate run %s: %w", run.RunID, err)
	}

	if _, err := w.updater.Upsert(ctx, score); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "score update failed for run",
			logger.String("runID", run.RunID),
			logger.Error(err),
		)
		return fmt.Errorf("store score for run %s: %w", run.RunID, err)
	}

	metrics.RecordRunProcessed()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	profiles   ProfileResolver
	aggregator Aggregator
	updater    Updater

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, profiles ProfileResolver, aggregator Aggregator, updater Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:    make([]*InMemoryWorker, workerCount),
		queue:      queue,
		profiles:   profiles,
		aggregator: aggregator,
		updater:    updater,
		shutdown:   make(chan struct{}),
		logger:     logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			profiles,
			aggregator,
			updater,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so workers drain remaining runs and stop.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
