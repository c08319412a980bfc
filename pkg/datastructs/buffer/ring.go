package buffer

// Ring is a fixed-capacity circular FIFO of items.
// It is NOT thread-safe; callers serialize access themselves.
type Ring[T any] struct {
	items    []T
	capacity int
	head     int // next slot to read from
	tail     int // next slot to write to
	count    int
}

// NewRing creates a Ring holding at most capacity items. Negative
// capacities are treated as zero.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// TryGet removes and returns the oldest item.
// Returns (zero, false) when the ring is empty.
func (r *Ring[T]) TryGet() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}

	item := r.items[r.head]
	r.items[r.head] = zero // drop the reference, the caller owns the item now
	r.head = r.wrapIndex(r.head + 1)
	r.count--
	return item, true
}

// TryPut appends item at the tail.
// Returns false when the ring is full.
func (r *Ring[T]) TryPut(item T) bool {
	if r.count == r.capacity {
		return false
	}

	r.items[r.tail] = item
	r.tail = r.wrapIndex(r.tail + 1)
	r.count++
	return true
}

// Len returns the number of stored items.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return r.capacity }

// IsEmpty reports whether the ring holds no items.
func (r *Ring[T]) IsEmpty() bool { return r.count == 0 }

// IsFull reports whether every slot is occupied.
func (r *Ring[T]) IsFull() bool { return r.count == r.capacity }

func (r *Ring[T]) wrapIndex(idx int) int {
	if idx >= r.capacity {
		return idx - r.capacity
	}
	return idx
}
