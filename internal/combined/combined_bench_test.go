package combined_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/cancel"
	"github.com/randomizedcoder/coprime-pi/internal/coprime"
	"github.com/randomizedcoder/coprime-pi/internal/queue"
	"github.com/randomizedcoder/coprime-pi/internal/report"
	"github.com/randomizedcoder/coprime-pi/internal/tick"
)

// Sink variables
var sinkSnap accum.Snapshot
var sinkBool bool

const (
	benchInterval = time.Hour
	benchBatch    = 64
)

func newSampler(b *testing.B) *coprime.Sampler {
	b.Helper()
	s, err := coprime.NewSampler(nil)
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// ============================================================================
// Worker loop: stop check + batch + merge
// ============================================================================

func benchWorkerLoop(b *testing.B, stop cancel.Canceler, sink accum.Sink) {
	s := newSampler(b)
	acc := accum.New(sink)
	b.ReportAllocs()
	b.ResetTimer()

	var snap accum.Snapshot
	for i := 0; i < b.N; i++ {
		if stop.Done() {
			b.Fatal("stopped")
		}
		snap, _ = acc.Merge(0, coprime.RunBatch(s, benchBatch))
	}
	sinkSnap = snap
}

// BenchmarkWorkerLoop_Context measures one small batch per iteration with
// the context-backed stop flag.
func BenchmarkWorkerLoop_Context(b *testing.B) {
	benchWorkerLoop(b, cancel.NewContext(context.Background()), accum.Discard)
}

// BenchmarkWorkerLoop_Atomic is the same loop with the atomic stop flag.
func BenchmarkWorkerLoop_Atomic(b *testing.B) {
	benchWorkerLoop(b, cancel.NewAtomic(), accum.Discard)
}

// BenchmarkWorkerLoop_Progress adds the throughput ticker check the
// progress sink performs on every merge.
func BenchmarkWorkerLoop_Progress(b *testing.B) {
	t := tick.NewAtomicTicker(benchInterval)
	benchWorkerLoop(b, cancel.NewAtomic(), report.NewThroughput(t, nil, time.Now()))
}

// ============================================================================
// Report hand-off: formatting under the lock vs queued to a writer goroutine
// ============================================================================

func benchMerge(b *testing.B, sink accum.Sink) {
	acc := accum.New(sink)
	r := coprime.BatchResult{Size: 1_000_000, Hits: 607_927}
	b.ReportAllocs()
	b.ResetTimer()

	var snap accum.Snapshot
	for i := 0; i < b.N; i++ {
		snap, _ = acc.Merge(0, r)
	}
	sinkSnap = snap
}

// BenchmarkMerge_Discard is the floor: lock, add, snapshot.
func BenchmarkMerge_Discard(b *testing.B) {
	benchMerge(b, accum.Discard)
}

// BenchmarkMerge_LineDirect formats and writes the 30-digit line while
// holding the accumulator lock.
func BenchmarkMerge_LineDirect(b *testing.B) {
	benchMerge(b, report.NewLineWriter(io.Discard, report.DefaultDigits))
}

// BenchmarkMerge_LineRing hands snapshots to the writer goroutine through
// the SPSC ring buffer.
func BenchmarkMerge_LineRing(b *testing.B) {
	q := report.NewQueued(queue.NewRingBuffer[accum.Snapshot](1024),
		report.NewLineWriter(io.Discard, report.DefaultDigits))
	defer q.Close()
	benchMerge(b, q)
}

// BenchmarkMerge_LineChannel hands snapshots over a buffered channel.
func BenchmarkMerge_LineChannel(b *testing.B) {
	q := report.NewQueued(queue.NewChannel[accum.Snapshot](1024),
		report.NewLineWriter(io.Discard, report.DefaultDigits))
	defer q.Close()
	benchMerge(b, q)
}

// ============================================================================
// Contended merge
// ============================================================================

// BenchmarkMerge_Parallel merges from GOMAXPROCS goroutines at once.
func BenchmarkMerge_Parallel(b *testing.B) {
	acc := accum.New(accum.Discard)
	r := coprime.BatchResult{Size: benchBatch, Hits: 39}
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := acc.Merge(0, r); err != nil {
				b.Error(err)
				return
			}
		}
	})
	sinkBool = acc.Read().Saturated
}
