// Package tick decides when periodic work is due from inside a hot path.
//
// The estimator uses a Ticker to throttle throughput logging: every merge
// asks Tick() whether a progress line is due, so the check must be cheap.
// Implementations:
//   - StdTicker: time.Ticker wrapper
//   - BatchTicker: looks at the clock only every N calls
//   - AtomicTicker: atomic timestamp comparison using runtime.nanotime
package tick

import (
	"errors"
	"fmt"
	"time"
)

// Ticker signals when a time interval has elapsed.
//
// All implementations are safe for concurrent use from multiple goroutines,
// though typically only one goroutine polls Tick() at a time.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset starts a new interval from now.
	Reset()

	// Stop releases any resources held by the ticker.
	// After Stop, the ticker should not be used.
	Stop()

	// Interval returns the configured interval.
	Interval() time.Duration
}

// Ticker kinds accepted by New.
const (
	KindStd    = "std"
	KindAtomic = "atomic"
	KindBatch  = "batch"
)

// DefaultInterval is the default progress logging period.
const DefaultInterval = 10 * time.Second

// ErrUnknownKind is returned by New for an unrecognised ticker kind.
var ErrUnknownKind = errors.New("tick: unknown ticker kind")

// New builds a Ticker of the given kind. every only applies to KindBatch.
func New(kind string, interval time.Duration, every int) (Ticker, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	switch kind {
	case KindStd:
		return NewTicker(interval), nil
	case KindAtomic, "":
		return NewAtomicTicker(interval), nil
	case KindBatch:
		return NewBatch(interval, every), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
