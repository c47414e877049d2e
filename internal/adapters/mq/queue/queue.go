// Package queue defines the contract for enqueuing and consuming scoring runs.
//
// Implementations may use channels or more advanced structures. The service
// starts with an in-memory bounded queue.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultBufferSize    = 10000
)

// Run is the payload type flowing through the queue.
type Run = model.Run

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a run to the queue.
	// Returns false if the queue is full and the run was not enqueued.
	Enqueue(ctx context.Context, r Run) bool

	// Dequeue returns a channel that will receive runs as they become available.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Run

	// Len returns the current number of queued runs.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new runs can be enqueued and the dequeue channel closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	runs       chan Run
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.runs = make(chan Run, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a run to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Run) bool {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.runs) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.runs <- r:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.runs)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive runs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Run {
	// Wrap the channel to track dequeue metrics.
	out := make(chan Run)
	go func() {
		defer close(out)
		for r := range q.runs {
			select {
			case out <- r:
				metrics.RecordQueueDequeue()
				currentSize := len(q.runs)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued runs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.runs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.runs)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
