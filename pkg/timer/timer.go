package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is the clock the scheduling helpers read from.
type Timer interface {
	Now() time.Time
	Stop()
}

// SystemTimer reads the wall clock on every call.
type SystemTimer struct{}

func (SystemTimer) Now() time.Time { return time.Now() }

func (SystemTimer) Stop() {}

// CachedTimer refreshes its reading once per step, trading resolution for
// a cheap Now when many workers log timestamps concurrently.
type CachedTimer struct {
	now    atomic.Value
	step   time.Duration
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func NewCachedTimer(step time.Duration) *CachedTimer {
	if step <= 0 {
		step = time.Millisecond
	}
	t := &CachedTimer{
		step:   step,
		ticker: time.NewTicker(step),
		done:   make(chan struct{}),
	}
	t.now.Store(time.Now())

	t.wg.Add(1)
	go t.run()

	return t
}

func (t *CachedTimer) run() {
	defer t.wg.Done()

	for {
		select {
		case now := <-t.ticker.C:
			t.now.Store(now)
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

func (t *CachedTimer) Now() time.Time {
	return t.now.Load().(time.Time)
}

// Step returns the refresh interval.
func (t *CachedTimer) Step() time.Duration {
	return t.step
}

// Stop halts the refresher. Safe to call more than once.
func (t *CachedTimer) Stop() {
	t.once.Do(func() { close(t.done) })
	t.wg.Wait()
}
