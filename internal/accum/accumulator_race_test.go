package accum_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/coprime"
)

// TestAccumulator_Race_NoLostUpdates merges M synthetic batches from each of
// W goroutines and checks the final totals are the exact sums.
// Run with: go test -race ./internal/accum
func TestAccumulator_Race_NoLostUpdates(t *testing.T) {
	const (
		workers = 16
		merges  = 2000
	)

	rec := &recorder{}
	a := accum.New(rec)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for m := 0; m < merges; m++ {
				// Vary the batch per worker so a lost update cannot cancel out.
				r := coprime.BatchResult{Size: uint64(id + 1), Hits: uint64(id % 2)}
				if _, err := a.Merge(id, r); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}

	// Concurrent readers must always see consistent totals.
	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				tot := a.Read()
				if tot.Hits > tot.Samples {
					t.Errorf("torn read: hits %d > samples %d", tot.Hits, tot.Samples)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	readers.Wait()

	var wantSamples, wantHits uint64
	for id := 0; id < workers; id++ {
		wantSamples += uint64(id+1) * merges
		wantHits += uint64(id%2) * merges
	}

	got := a.Read()
	assert.Equal(t, wantSamples, got.Samples)
	assert.Equal(t, wantHits, got.Hits)
	assert.Equal(t, uint64(workers*merges), got.Batches)
	assert.False(t, got.Saturated)

	// Reports are totally ordered by merge.
	require.Len(t, rec.snaps, workers*merges)
	for i, s := range rec.snaps {
		require.Equal(t, uint64(i+1), s.Seq)
		if i > 0 {
			prev := rec.snaps[i-1]
			require.Greater(t, s.Totals.Samples, prev.Totals.Samples)
			require.GreaterOrEqual(t, s.Totals.Hits, prev.Totals.Hits)
			require.Equal(t, prev.Totals.Samples+s.Batch.Size, s.Totals.Samples)
		}
	}
}
