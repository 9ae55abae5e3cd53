package experiment

import "sync/atomic"

// Clock is the monotonic logical clock that stamps trace events.
//
// Every event in a run carries a strictly increasing seq from one Clock, so
// trace order is explicit in the data and never depends on wall-clock time.
// A fresh Clock starts each run at 0; the first event gets seq 1.
//
// Safe for concurrent use, though the runner is single-threaded by design.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
