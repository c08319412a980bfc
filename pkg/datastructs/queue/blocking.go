package queue

import (
	"time"

	"github.com/pkg/errors"
)

var _ Queue[int] = (*Blocking[int])(nil)

// Blocking is the front-end queue. The backend is chosen once in New and
// every operation is forwarded to it, so callers never branch on it.
type Blocking[T any] struct {
	backend Backend
	impl    Queue[T]
}

// New creates a queue of the given capacity backed by backend.
func New[T any](backend Backend, capacity int, opts ...Option) (*Blocking[T], error) {
	var (
		impl Queue[T]
		err  error
	)

	switch backend {
	case BackendMonitor:
		var m *Monitor[T]
		if m, err = NewMonitor[T](capacity, opts...); err == nil {
			impl = m
		}
	case BackendSemaphore:
		var s *Semaphore[T]
		if s, err = NewSemaphore[T](capacity, opts...); err == nil {
			impl = s
		}
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "tag %d", backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "create %s queue", backend)
	}

	return &Blocking[T]{backend: backend, impl: impl}, nil
}

// Backend reports which implementation serves this queue.
func (b *Blocking[T]) Backend() Backend { return b.backend }

func (b *Blocking[T]) Get() T                                { return b.impl.Get() }
func (b *Blocking[T]) Put(item T)                            { b.impl.Put(item) }
func (b *Blocking[T]) Remove() (T, bool)                     { return b.impl.Remove() }
func (b *Blocking[T]) Add(item T) bool                       { return b.impl.Add(item) }
func (b *Blocking[T]) Poll(deadline time.Time) (T, bool)     { return b.impl.Poll(deadline) }
func (b *Blocking[T]) Offer(item T, deadline time.Time) bool { return b.impl.Offer(item, deadline) }
func (b *Blocking[T]) Size() int                             { return b.impl.Size() }
func (b *Blocking[T]) Capacity() int                         { return b.impl.Capacity() }
