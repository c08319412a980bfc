package queue

import (
	"sync"
	"time"

	"github.com/huynhanx03/go-blockq/pkg/datastructs/buffer"
)

var _ Queue[int] = (*Monitor[int])(nil)

// Monitor is a bounded blocking queue guarded by one mutex and two condition
// variables, "not empty" for consumers and "not full" for producers.
//
// Every wait re-checks its predicate after waking, so spurious and stolen
// wake-ups are harmless. Each successful pop signals one producer and each
// successful push signals one consumer; a waiter only ever needs one slot.
type Monitor[T any] struct {
	mu       sync.Mutex
	notEmpty *cond
	notFull  *cond
	ring     *buffer.Ring[T]
	tracer   tracer
}

// NewMonitor creates a monitor-backed queue holding at most capacity items.
func NewMonitor[T any](capacity int, opts ...Option) (*Monitor[T], error) {
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	q := &Monitor[T]{
		ring:   buffer.NewRing[T](capacity),
		tracer: newTracer(o.logger, BackendMonitor),
	}
	q.notEmpty = newCond(&q.mu)
	q.notFull = newCond(&q.mu)
	return q, nil
}

// Get removes and returns the oldest item, blocking while the queue is empty.
func (q *Monitor[T]) Get() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.ring.IsEmpty() {
		q.notEmpty.Wait()
	}
	return q.pop("get (B)")
}

// Put inserts item, blocking while the queue is full.
func (q *Monitor[T]) Put(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.ring.IsFull() {
		q.notFull.Wait()
	}
	q.push("put (B)", item)
}

// Remove returns the oldest item without waiting.
func (q *Monitor[T]) Remove() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ring.IsEmpty() {
		var zero T
		q.tracer.trace("remove (I)", zero, false, 0)
		return zero, false
	}
	return q.pop("remove (I)"), true
}

// Add inserts item without waiting. Returns false if the queue is full.
func (q *Monitor[T]) Add(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ring.IsFull() {
		q.tracer.trace("add (I)", item, false, q.ring.Len())
		return false
	}
	q.push("add (I)", item)
	return true
}

// Poll waits for an item until deadline.
func (q *Monitor[T]) Poll(deadline time.Time) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.ring.IsEmpty() {
		if !q.notEmpty.WaitUntil(deadline) && q.ring.IsEmpty() {
			var zero T
			q.tracer.trace("poll (T)", zero, false, 0)
			return zero, false
		}
	}
	return q.pop("poll (T)"), true
}

// Offer waits for a free slot until deadline.
func (q *Monitor[T]) Offer(item T, deadline time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.ring.IsFull() {
		if !q.notFull.WaitUntil(deadline) && q.ring.IsFull() {
			q.tracer.trace("offer (T)", item, false, q.ring.Len())
			return false
		}
	}
	q.push("offer (T)", item)
	return true
}

// Size returns the number of queued items at the time of the call.
func (q *Monitor[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Len()
}

// Capacity returns the maximum number of queued items.
func (q *Monitor[T]) Capacity() int { return q.ring.Cap() }

// pop and push run with mu held and the predicate already satisfied.
func (q *Monitor[T]) pop(op string) T {
	item, _ := q.ring.TryGet()
	q.notFull.Signal()
	q.tracer.trace(op, item, true, q.ring.Len())
	return item
}

func (q *Monitor[T]) push(op string, item T) {
	q.ring.TryPut(item)
	q.notEmpty.Signal()
	q.tracer.trace(op, item, true, q.ring.Len())
}
