// Command batchbench measures what a worker pays per batch: drawing and
// testing the pairs, checking the stop flag, and merging the result.
//
// Usage:
//
//	go run ./cmd/batchbench -samples 20000000 -sizes 1000,100000,1000000
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/cancel"
	"github.com/randomizedcoder/coprime-pi/internal/coprime"
	"github.com/randomizedcoder/coprime-pi/internal/estimate"
	"github.com/randomizedcoder/coprime-pi/internal/queue"
	"github.com/randomizedcoder/coprime-pi/internal/report"
)

func main() {
	total := flag.Int("samples", 20_000_000, "samples per batch size")
	sizeList := flag.String("sizes", "1000,100000,1000000", "comma-separated batch sizes")
	digits := flag.Int("digits", report.DefaultDigits, "significant digits per report line")
	merges := flag.Int("merges", 1_000_000, "merges per report benchmark")
	flag.Parse()

	sizes, err := parseSizes(*sizeList)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Benchmarking coprime batches (%d samples per size)\n", *total)
	fmt.Println("─────────────────────────────────────────────────────────")

	s, err := coprime.NewSampler(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Sampling alone, per batch size
	fmt.Printf("\nSampling:\n")
	var samples, hits uint64
	var perBatch float64
	for _, size := range sizes {
		batches := max(*total/size, 1)
		var h uint64
		start := time.Now()
		for i := 0; i < batches; i++ {
			h += coprime.RunBatch(s, size).Hits
		}
		dur := time.Since(start)
		n := uint64(batches) * uint64(size)
		samples += n
		hits += h

		perSample := float64(dur.Nanoseconds()) / float64(n)
		perBatch = float64(dur.Nanoseconds()) / float64(batches)
		fmt.Printf("  batch=%-9d %v, %.2f ns/sample, %.0f ns/batch, %.2f M samples/sec\n",
			size, dur, perSample, perBatch, 1000/perSample)
	}
	fmt.Printf("  Estimate: %s\n", estimate.Text(samples, hits, *digits))

	// Stop flag checks, one per batch
	ctxStop := cancel.NewContext(context.Background())
	start := time.Now()
	for i := 0; i < *merges; i++ {
		_ = ctxStop.Done()
	}
	ctxDur := time.Since(start)

	atomicStop := cancel.NewAtomic()
	start = time.Now()
	for i := 0; i < *merges; i++ {
		_ = atomicStop.Done()
	}
	atomicDur := time.Since(start)

	// Merge cost with each report path
	last := uint64(sizes[len(sizes)-1])
	r := coprime.BatchResult{Size: last, Hits: last * hits / max(samples, 1)}
	discardDur := timeMerges(accum.Discard, r, *merges)
	lineDur := timeMerges(report.NewLineWriter(io.Discard, *digits), r, *merges)

	ring := report.NewQueued(queue.NewRingBuffer[accum.Snapshot](1024), report.NewLineWriter(io.Discard, *digits))
	ringDur := timeMerges(ring, r, *merges)
	_ = ring.Close()

	// Results
	perOp := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / float64(*merges) }

	fmt.Printf("\nStop check (per batch):\n")
	fmt.Printf("  Context:  %.2f ns/op\n", perOp(ctxDur))
	fmt.Printf("  Atomic:   %.2f ns/op\n", perOp(atomicDur))

	fmt.Printf("\nMerge (per batch):\n")
	fmt.Printf("  Discard:       %.2f ns/op\n", perOp(discardDur))
	fmt.Printf("  Line, locked:  %.2f ns/op\n", perOp(lineDur))
	fmt.Printf("  Line, ring:    %.2f ns/op\n", perOp(ringDur))

	fmt.Println("\nImpact Analysis:")
	fmt.Println("─────────────────────────────────────────────────────────")
	overhead := perOp(ctxDur) + perOp(lineDur)
	fmt.Printf("  Per-batch overhead (context + locked line): %.2f ns\n", overhead)
	fmt.Printf("  Share of one %d-sample batch: %.4f%%\n", last, overhead*100/perBatch)
}

func timeMerges(sink accum.Sink, r coprime.BatchResult, n int) time.Duration {
	acc := accum.New(sink)
	start := time.Now()
	for i := 0; i < n; i++ {
		if _, err := acc.Merge(0, r); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	return time.Since(start)
}

func parseSizes(list string) ([]int, error) {
	var sizes []int
	for _, f := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("batchbench: bad batch size %q", f)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
