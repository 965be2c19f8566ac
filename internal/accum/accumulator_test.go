package accum_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/coprime"
)

// recorder keeps every snapshot it is handed. The accumulator lock
// serializes calls, so no extra locking is needed here.
type recorder struct {
	snaps []accum.Snapshot
}

func (r *recorder) Report(s accum.Snapshot) error {
	r.snaps = append(r.snaps, s)
	return nil
}

func TestAccumulator_Merge(t *testing.T) {
	rec := &recorder{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := accum.New(rec, accum.WithClock(func() time.Time { return at }))

	assert.Equal(t, accum.Totals{}, a.Read())

	snap, err := a.Merge(3, coprime.BatchResult{Size: 100, Hits: 60})
	require.NoError(t, err)

	want := accum.Snapshot{
		Seq:    1,
		Worker: 3,
		Batch:  coprime.BatchResult{Size: 100, Hits: 60},
		Totals: accum.Totals{Samples: 100, Hits: 60, Batches: 1},
		At:     at,
	}
	assert.Equal(t, want, snap)
	require.Len(t, rec.snaps, 1)
	assert.Equal(t, want, rec.snaps[0])

	_, err = a.Merge(1, coprime.BatchResult{Size: 50, Hits: 20})
	require.NoError(t, err)
	assert.Equal(t, accum.Totals{Samples: 150, Hits: 80, Batches: 2}, a.Read())
	assert.InDelta(t, math.Sqrt(6*150.0/80.0), a.Read().Estimate(), 1e-12)
}

func TestAccumulator_NilSink(t *testing.T) {
	a := accum.New(nil)

	_, err := a.Merge(0, coprime.BatchResult{Size: 10, Hits: 7})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), a.Read().Samples)
}

func TestAccumulator_SinkError(t *testing.T) {
	boom := errors.New("stdout closed")
	a := accum.New(accum.SinkFunc(func(accum.Snapshot) error { return boom }))

	snap, err := a.Merge(0, coprime.BatchResult{Size: 10, Hits: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The batch is still counted.
	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, accum.Totals{Samples: 10, Hits: 7, Batches: 1}, a.Read())
}

func TestAccumulator_Saturates(t *testing.T) {
	start := accum.Totals{Samples: math.MaxUint64 - 5, Hits: math.MaxUint64 - 10, Batches: 7}
	a := accum.New(nil, accum.WithTotals(start))

	snap, err := a.Merge(0, coprime.BatchResult{Size: 4, Hits: 4})
	require.NoError(t, err)
	assert.False(t, snap.Totals.Saturated)
	assert.Equal(t, uint64(math.MaxUint64-1), snap.Totals.Samples)

	snap, err = a.Merge(0, coprime.BatchResult{Size: 4, Hits: 4})
	require.NoError(t, err)
	assert.True(t, snap.Totals.Saturated)
	assert.Equal(t, uint64(math.MaxUint64), snap.Totals.Samples)
	assert.Equal(t, uint64(math.MaxUint64-2), snap.Totals.Hits)

	// Monotone and bounded from here on.
	for i := 0; i < 3; i++ {
		next, err := a.Merge(0, coprime.BatchResult{Size: 4, Hits: 4})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.Totals.Samples, snap.Totals.Samples)
		assert.GreaterOrEqual(t, next.Totals.Hits, snap.Totals.Hits)
		assert.LessOrEqual(t, next.Totals.Hits, next.Totals.Samples)
		snap = next
	}
	assert.Equal(t, uint64(math.MaxUint64), a.Read().Hits)
}

func TestAccumulator_HitsNeverExceedSamples(t *testing.T) {
	a := accum.New(nil)

	_, err := a.Merge(0, coprime.BatchResult{Size: 1, Hits: 5})
	require.NoError(t, err)

	got := a.Read()
	assert.LessOrEqual(t, got.Hits, got.Samples)
}

func TestWithTotals_ClampsHits(t *testing.T) {
	a := accum.New(nil, accum.WithTotals(accum.Totals{Samples: 10, Hits: 20, Batches: 1}))
	assert.Equal(t, accum.Totals{Samples: 10, Hits: 10, Batches: 1}, a.Read())

	snap, err := a.Merge(0, coprime.BatchResult{Size: 5, Hits: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(15), snap.Totals.Samples)
	assert.Equal(t, uint64(13), snap.Totals.Hits)
}
