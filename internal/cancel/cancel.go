// Package cancel provides the stop flag shared by sampling workers and the
// controller that raises it on an interrupt signal.
//
// Two Canceler implementations are available:
//   - ContextCanceler: wraps context.Context, so the flag can also feed
//     anything that selects on ctx.Done()
//   - AtomicCanceler: a single atomic.Bool, the cheapest thing to poll
//
// Workers poll Done() once per batch. Either implementation is monotone:
// once Done() reports true it never reports false again.
package cancel

import "context"

// Canceler provides cancellation signaling to workers.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}

// New returns a Canceler of the given kind: "atomic" or "context".
// Unknown kinds fall back to "context". parent only applies to "context".
func New(parent context.Context, kind string) Canceler {
	if kind == KindAtomic {
		return NewAtomic()
	}
	return NewContext(parent)
}

// Canceler kinds accepted by New.
const (
	KindAtomic  = "atomic"
	KindContext = "context"
)
