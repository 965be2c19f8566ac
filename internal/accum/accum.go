// Package accum provides the shared running totals that every sampling
// worker merges into.
//
// An Accumulator owns a single mutex. Merge adds one batch to the totals and
// hands a Snapshot of the new totals to the configured Sink before releasing
// the lock, so:
//   - no merge is ever lost, whatever the interleaving of workers
//   - readers taking the same lock never see a half-applied batch
//   - the sequence of reported snapshots is totally ordered by merge order,
//     and therefore non-decreasing in cumulative samples
//
// Counters are uint64 with saturating addition. Once a counter would wrap it
// is pinned at math.MaxUint64 and Totals.Saturated is set.
package accum

import (
	"time"

	"github.com/randomizedcoder/coprime-pi/internal/coprime"
	"github.com/randomizedcoder/coprime-pi/internal/estimate"
)

// Totals are the cumulative counts over every merged batch.
//
// 0 <= Hits <= Samples holds after every merge.
type Totals struct {
	Samples   uint64
	Hits      uint64
	Batches   uint64
	Saturated bool
}

// Estimate returns the float64 estimate for these totals.
func (t Totals) Estimate() float64 {
	return estimate.Float(t.Samples, t.Hits)
}

// Snapshot is a copy of the totals taken inside the critical section of one
// merge, together with the batch that produced it.
type Snapshot struct {
	// Seq is the 1-based ordinal of the merge.
	Seq uint64
	// Worker identifies the worker whose batch was merged.
	Worker int
	Batch  coprime.BatchResult
	Totals Totals
	At     time.Time
}

// Sink receives one Snapshot per merge.
//
// Report is called with the accumulator lock held. Implementations must not
// call back into the Accumulator, and should return quickly since every other
// worker waits for the lock meanwhile.
type Sink interface {
	Report(Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Snapshot) error

// Report calls f(s).
func (f SinkFunc) Report(s Snapshot) error {
	return f(s)
}

// Discard is a Sink that drops every snapshot.
var Discard Sink = SinkFunc(func(Snapshot) error { return nil })
