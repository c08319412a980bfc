package queue

import (
	"sync"
	"time"
)

// cond is a condition variable bound to a Locker that, unlike sync.Cond,
// supports waiting with an absolute deadline. Waiters are parked on their
// own buffered channel and woken in arrival order.
//
// Wait, WaitUntil, Signal and Broadcast must be called with l held.
type cond struct {
	l       sync.Locker
	waiters []chan struct{}
}

func newCond(l sync.Locker) *cond {
	return &cond{l: l}
}

// Wait atomically unlocks l and suspends the caller until signalled.
// l is locked again before Wait returns. As with sync.Cond the caller must
// re-check its predicate in a loop.
func (c *cond) Wait() {
	ch := c.park()
	c.l.Unlock()
	<-ch
	c.l.Lock()
}

// WaitUntil is Wait bounded by deadline. It reports false when the deadline
// elapsed without a signal addressed to this waiter; an expired deadline
// returns false at once without releasing l.
func (c *cond) WaitUntil(deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		return false
	}

	ch := c.park()
	c.l.Unlock()

	t := time.NewTimer(d)
	select {
	case <-ch:
		t.Stop()
		c.l.Lock()
		return true
	case <-t.C:
	}

	c.l.Lock()
	if c.unpark(ch) {
		return false
	}
	// Signal popped us between the timer firing and relocking, so the
	// wake-up belongs to this waiter and must not be dropped.
	<-ch
	return true
}

// Signal wakes the longest waiting goroutine, if any.
func (c *cond) Signal() {
	if len(c.waiters) == 0 {
		return
	}
	ch := c.waiters[0]
	c.waiters[0] = nil
	c.waiters = c.waiters[1:]
	ch <- struct{}{}
}

// Broadcast wakes every waiting goroutine.
func (c *cond) Broadcast() {
	for len(c.waiters) > 0 {
		c.Signal()
	}
}

// Waiters returns the number of parked goroutines.
func (c *cond) Waiters() int {
	return len(c.waiters)
}

func (c *cond) park() chan struct{} {
	ch := make(chan struct{}, 1)
	c.waiters = append(c.waiters, ch)
	return ch
}

func (c *cond) unpark(ch chan struct{}) bool {
	for i, w := range c.waiters {
		if w == ch {
			copy(c.waiters[i:], c.waiters[i+1:])
			c.waiters[len(c.waiters)-1] = nil
			c.waiters = c.waiters[:len(c.waiters)-1]
			return true
		}
	}
	return false
}
