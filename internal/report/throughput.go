package report

import (
	"log/slog"
	"time"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/tick"
)

// Throughput logs a progress summary whenever its ticker fires.
//
// NOT safe for concurrent use; Report must be serialized.
type Throughput struct {
	ticker tick.Ticker
	logger *slog.Logger

	last   accum.Totals
	lastAt time.Time
}

// NewThroughput creates a progress logger measuring rates from start.
func NewThroughput(t tick.Ticker, logger *slog.Logger, start time.Time) *Throughput {
	if logger == nil {
		logger = slog.Default()
	}
	return &Throughput{
		ticker: t,
		logger: logger.With(slog.String("component", "throughput")),
		lastAt: start,
	}
}

// Report logs samples/sec since the previous progress line when due.
func (t *Throughput) Report(s accum.Snapshot) error {
	if !t.ticker.Tick() {
		return nil
	}

	var rate float64
	if elapsed := s.At.Sub(t.lastAt); elapsed > 0 {
		rate = float64(s.Totals.Samples-t.last.Samples) / elapsed.Seconds()
	}

	t.logger.Info("progress",
		slog.Uint64("samples", s.Totals.Samples),
		slog.Uint64("hits", s.Totals.Hits),
		slog.Uint64("batches", s.Totals.Batches),
		slog.Float64("estimate", s.Totals.Estimate()),
		slog.Float64("samples_per_sec", rate),
		slog.Bool("saturated", s.Totals.Saturated),
	)

	t.last = s.Totals
	t.lastAt = s.At
	return nil
}
