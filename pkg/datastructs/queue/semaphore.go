package queue

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/huynhanx03/go-blockq/pkg/datastructs/buffer"
)

var _ Queue[int] = (*Semaphore[int])(nil)

// Semaphore is a bounded blocking queue built on two counting semaphores:
// free counts empty slots (starts at capacity) and occupied counts queued
// items (starts at 0). The mutex only covers the ring mutation, so waiting
// for a slot never holds it.
//
// A permit is always acquired before the mutex and released after it.
// Failed acquisitions leave the counts, the mutex and the ring untouched.
type Semaphore[T any] struct {
	mu       sync.Mutex
	ring     *buffer.Ring[T]
	free     *semaphore.Weighted
	occupied *semaphore.Weighted
	tracer   tracer
}

// NewSemaphore creates a semaphore-backed queue holding at most capacity items.
func NewSemaphore[T any](capacity int, opts ...Option) (*Semaphore[T], error) {
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	// Weighted has no initial count, so drain every permit up front.
	occupied := semaphore.NewWeighted(int64(capacity))
	if !occupied.TryAcquire(int64(capacity)) {
		return nil, errors.New("queue: failed to initialise occupied semaphore")
	}

	return &Semaphore[T]{
		ring:     buffer.NewRing[T](capacity),
		free:     semaphore.NewWeighted(int64(capacity)),
		occupied: occupied,
		tracer:   newTracer(o.logger, BackendSemaphore),
	}, nil
}

// Get removes and returns the oldest item, blocking while the queue is empty.
func (q *Semaphore[T]) Get() T {
	// Acquire only fails on a done context, which Background never is.
	_ = q.occupied.Acquire(context.Background(), 1)
	return q.pop("get (B)")
}

// Put inserts item, blocking while the queue is full.
func (q *Semaphore[T]) Put(item T) {
	_ = q.free.Acquire(context.Background(), 1)
	q.push("put (B)", item)
}

// Remove returns the oldest item without waiting.
func (q *Semaphore[T]) Remove() (T, bool) {
	if !q.occupied.TryAcquire(1) {
		var zero T
		q.tracer.trace("remove (I)", zero, false, q.Size())
		return zero, false
	}
	return q.pop("remove (I)"), true
}

// Add inserts item without waiting. Returns false if the queue is full.
func (q *Semaphore[T]) Add(item T) bool {
	if !q.free.TryAcquire(1) {
		q.tracer.trace("add (I)", item, false, q.Size())
		return false
	}
	q.push("add (I)", item)
	return true
}

// Poll waits for an item until deadline.
func (q *Semaphore[T]) Poll(deadline time.Time) (T, bool) {
	if !acquireUntil(q.occupied, deadline) {
		var zero T
		q.tracer.trace("poll (T)", zero, false, q.Size())
		return zero, false
	}
	return q.pop("poll (T)"), true
}

// Offer waits for a free slot until deadline.
func (q *Semaphore[T]) Offer(item T, deadline time.Time) bool {
	if !acquireUntil(q.free, deadline) {
		q.tracer.trace("offer (T)", item, false, q.Size())
		return false
	}
	q.push("offer (T)", item)
	return true
}

// Size returns the number of queued items at the time of the call.
func (q *Semaphore[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Len()
}

// Capacity returns the maximum number of queued items.
func (q *Semaphore[T]) Capacity() int { return q.ring.Cap() }

// pop runs after an occupied permit was taken, so the ring cannot be empty.
func (q *Semaphore[T]) pop(op string) T {
	q.mu.Lock()
	item, _ := q.ring.TryGet()
	size := q.ring.Len()
	q.mu.Unlock()

	q.free.Release(1)
	q.tracer.trace(op, item, true, size)
	return item
}

// push runs after a free permit was taken, so the ring cannot be full.
func (q *Semaphore[T]) push(op string, item T) {
	q.mu.Lock()
	q.ring.TryPut(item)
	size := q.ring.Len()
	q.mu.Unlock()

	q.occupied.Release(1)
	q.tracer.trace(op, item, true, size)
}

// acquireUntil takes one permit from s, waiting no later than deadline.
// An immediately available permit is taken even if the deadline has passed.
func acquireUntil(s *semaphore.Weighted, deadline time.Time) bool {
	if s.TryAcquire(1) {
		return true
	}
	if !time.Now().Before(deadline) {
		return false
	}

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()
	return s.Acquire(ctx, 1) == nil
}
