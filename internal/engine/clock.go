package engine

import "sync/atomic"

// Clock numbers firings with a strictly increasing sequence.
//
// Every successful Step takes the next value, so Current is the number of
// firings performed so far. Safe for concurrent reads while one goroutine
// steps the interpreter.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
