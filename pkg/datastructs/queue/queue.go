package queue

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCapacity is returned by the constructors when capacity <= 0.
	ErrInvalidCapacity = errors.New("queue: capacity must be positive")

	// ErrUnknownBackend is returned when a Backend tag names no implementation.
	ErrUnknownBackend = errors.New("queue: unknown backend")

	// ErrTimeout, ErrEmpty and ErrFull name the outcomes reported as false by
	// Poll/Offer, Remove and Add. The queue itself never returns them.
	ErrTimeout = errors.New("queue: deadline elapsed")
	ErrEmpty   = errors.New("queue: empty")
	ErrFull    = errors.New("queue: full")
)

// Queue is a generic interface for bounded, blocking FIFO queues.
// Implementations are safe for concurrent use by any number of producers
// and consumers.
type Queue[T any] interface {
	// Get removes and returns the oldest item, blocking while the queue is empty.
	Get() T

	// Put inserts an item, blocking while the queue is full.
	Put(item T)

	// Remove is a non-blocking Get.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Remove() (T, bool)

	// Add is a non-blocking Put.
	// Returns true if successful, false if the queue is full.
	Add(item T) bool

	// Poll is a Get that waits no later than the absolute deadline.
	// Returns (zero, false) on timeout.
	Poll(deadline time.Time) (T, bool)

	// Offer is a Put that waits no later than the absolute deadline.
	// Returns false on timeout.
	Offer(item T, deadline time.Time) bool

	// Size returns a snapshot of the number of queued items.
	Size() int

	// Capacity returns the fixed capacity of the queue.
	Capacity() int
}

// Backend selects the synchronization strategy behind a Blocking queue.
type Backend uint8

const (
	// BackendMonitor uses a mutex and two condition variables.
	BackendMonitor Backend = iota
	// BackendSemaphore uses a mutex and two counting semaphores.
	BackendSemaphore
)

var backendNames = map[Backend]string{
	BackendMonitor:   "monitor",
	BackendSemaphore: "semaphore",
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return "backend(" + strconv.Itoa(int(b)) + ")"
}

// ParseBackend maps "monitor"/"cond" and "semaphore"/"sem" to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monitor", "cond":
		return BackendMonitor, nil
	case "semaphore", "sem":
		return BackendSemaphore, nil
	}
	return 0, errors.Wrapf(ErrUnknownBackend, "%q", s)
}

func validateCapacity(capacity int) error {
	if capacity <= 0 {
		return errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return nil
}
