package timer

import (
	"context"
	"time"
)

// resyncSlot is the phase offset between two consecutive worker slots.
const resyncSlot = 10 * time.Millisecond

// Deadline returns the absolute instant d after from.
func Deadline(from time.Time, d time.Duration) time.Time {
	return from.Add(d)
}

// SleepUntil blocks until deadline or until ctx is done. A deadline in the
// past returns immediately.
func SleepUntil(ctx context.Context, deadline time.Time) error {
	return sleepFor(ctx, time.Until(deadline))
}

// Resynchronize sleeps until the next whole second of clock plus slot*10ms,
// so that workers started together act in a stable order.
func Resynchronize(ctx context.Context, clock Timer, slot int) error {
	now := clock.Now()
	target := now.Truncate(time.Second).Add(time.Second + time.Duration(slot)*resyncSlot)
	return sleepFor(ctx, target.Sub(now))
}

func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Periodic tracks the absolute release instants of a periodic task. Each
// deadline is derived from the previous one, never from the current time,
// so lateness in one iteration does not shift the next.
type Periodic struct {
	period   time.Duration
	deadline time.Time
}

// NewPeriodic starts the schedule at start; the first Next returns
// start+period.
func NewPeriodic(start time.Time, period time.Duration) *Periodic {
	return &Periodic{period: period, deadline: start}
}

// Next advances the schedule by one period and returns the new deadline.
func (p *Periodic) Next() time.Time {
	p.deadline = p.deadline.Add(p.period)
	return p.deadline
}

// Deadline returns the current deadline without advancing.
func (p *Periodic) Deadline() time.Time {
	return p.deadline
}

// Wait sleeps until the current deadline.
func (p *Periodic) Wait(ctx context.Context) error {
	return SleepUntil(ctx, p.deadline)
}
