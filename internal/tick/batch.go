package tick

import (
	"sync"
	"time"
)

// BatchTicker checks the clock only every N calls to Tick().
//
// With every=100 and interval=10s the clock is read once per 100 merges and
// a tick fires if 10s have passed since the last one. This suits small batch
// sizes, where merges arrive far more often than progress lines are wanted.
type BatchTicker struct {
	mu       sync.Mutex
	interval time.Duration
	every    int
	count    int
	lastTick time.Time
}

// NewBatch creates a BatchTicker that reads the clock every N calls.
// every < 1 is treated as 1.
func NewBatch(interval time.Duration, every int) *BatchTicker {
	if every < 1 {
		every = 1
	}
	return &BatchTicker{
		interval: interval,
		every:    every,
		lastTick: time.Now(),
	}
}

// Tick returns true if the interval has elapsed.
//
// On calls that are not a multiple of every, Tick returns false without
// reading the clock.
func (b *BatchTicker) Tick() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	if b.count < b.every {
		return false
	}
	b.count = 0

	now := time.Now()
	if now.Sub(b.lastTick) >= b.interval {
		b.lastTick = now
		return true
	}
	return false
}

// Reset restarts both the call count and the interval.
func (b *BatchTicker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count = 0
	b.lastTick = time.Now()
}

// Stop is a no-op for BatchTicker (no resources to release).
func (b *BatchTicker) Stop() {}

// Every returns the number of calls between clock reads.
func (b *BatchTicker) Every() int {
	return b.every
}

// Interval returns the ticker's interval.
func (b *BatchTicker) Interval() time.Duration {
	return b.interval
}
