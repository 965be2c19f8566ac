package accum

import (
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"sync"
	"time"

	"github.com/randomizedcoder/coprime-pi/internal/coprime"
)

// Accumulator holds the shared Totals behind a single mutex.
//
// Safe for concurrent use. The zero value is not usable; call New.
type Accumulator struct {
	mu     sync.Mutex
	totals Totals
	seq    uint64

	sink   Sink
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithLogger sets the logger used for saturation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *Accumulator) {
		a.logger = l
	}
}

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(a *Accumulator) {
		a.now = now
	}
}

// WithTotals starts the accumulator from existing totals instead of zero.
// Hits above Samples are clamped to Samples.
func WithTotals(t Totals) Option {
	return func(a *Accumulator) {
		if t.Hits > t.Samples {
			t.Hits = t.Samples
		}
		a.totals = t
	}
}

// New creates an Accumulator reporting every merge to sink.
// A nil sink discards snapshots.
func New(sink Sink, opts ...Option) *Accumulator {
	if sink == nil {
		sink = Discard
	}
	a := &Accumulator{
		sink:   sink,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(slog.String("component", "accumulator"))
	return a
}

// Merge adds r to the totals and reports the resulting Snapshot to the sink,
// all inside one critical section.
//
// The totals are updated even when the sink fails; accumulated evidence is
// never retracted. The sink error is returned wrapped.
func (a *Accumulator) Merge(worker int, r coprime.BatchResult) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	wasSaturated := a.totals.Saturated
	a.totals.Samples = a.add(a.totals.Samples, r.Size)
	a.totals.Hits = a.add(a.totals.Hits, r.Hits)
	a.totals.Batches = a.add(a.totals.Batches, 1)
	if a.totals.Hits > a.totals.Samples {
		// Only reachable if a batch reports more hits than samples.
		a.totals.Hits = a.totals.Samples
	}
	if a.totals.Saturated && !wasSaturated {
		a.logger.Warn("counters saturated; totals are pinned from now on",
			slog.Uint64("samples", a.totals.Samples),
			slog.Uint64("hits", a.totals.Hits),
		)
	}

	a.seq++
	snap := Snapshot{
		Seq:    a.seq,
		Worker: worker,
		Batch:  r,
		Totals: a.totals,
		At:     a.now(),
	}

	if err := a.sink.Report(snap); err != nil {
		return snap, fmt.Errorf("accum: report merge %d: %w", snap.Seq, err)
	}
	return snap, nil
}

// Read returns the current totals under the merge lock.
func (a *Accumulator) Read() Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// add returns x+y, saturating at math.MaxUint64. Caller holds a.mu.
func (a *Accumulator) add(x, y uint64) uint64 {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		a.totals.Saturated = true
		return math.MaxUint64
	}
	return sum
}
