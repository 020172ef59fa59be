// Package testutil holds deterministic id and seq sources for store and
// harness tests.
package testutil

import "sync"

// SequenceClock is a resettable logical clock for tests.
//
// It satisfies store.Sequencer. Unlike store.Clock it can be rewound, so
// one scenario can be recorded twice with identical seq values.
type SequenceClock struct {
	mu    sync.Mutex
	start int64
	seq   int64
}

// NewSequenceClock creates a clock whose first Next returns start+1.
func NewSequenceClock(start int64) *SequenceClock {
	return &SequenceClock{start: start, seq: start}
}

// Next increments and returns the next sequence number.
func (c *SequenceClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out, or start before any call.
func (c *SequenceClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to its starting value.
func (c *SequenceClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.start
}
