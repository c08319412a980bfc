package timer

import "time"

// Stopwatch measures time elapsed since a fixed start on a given clock.
type Stopwatch struct {
	clock Timer
	start time.Time
}

func NewStopwatch(clock Timer) *Stopwatch {
	return &Stopwatch{clock: clock, start: clock.Now()}
}

// Start returns the instant the stopwatch was created.
func (s *Stopwatch) Start() time.Time {
	return s.start
}

// Elapsed returns the time since Start, never negative.
func (s *Stopwatch) Elapsed() time.Duration {
	if d := s.clock.Now().Sub(s.start); d > 0 {
		return d
	}
	return 0
}

// Millis returns Elapsed truncated to whole milliseconds.
func (s *Stopwatch) Millis() int64 {
	return s.Elapsed().Milliseconds()
}
