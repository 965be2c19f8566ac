// Package pool runs the sampling workers.
//
// A Pool owns W goroutines. Each one seeds its own Sampler, then loops:
// check the stop condition, run a batch, merge it into the shared
// accumulator (which emits the report). Two modes:
//   - bounded (Config.Rounds > 0): exactly Rounds batches are run across the
//     whole pool, then every worker returns
//   - unbounded (Config.Rounds == 0): workers run until the stop flag is set
//
// The stop flag is checked between batches only, so a worker always
// finishes and merges its in-flight batch. Run joins every worker before
// returning.
package pool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/cancel"
	"github.com/randomizedcoder/coprime-pi/internal/coprime"
)

// ErrInvalidConfig is returned by New for an unusable Config.
var ErrInvalidConfig = errors.New("pool: invalid config")

// Config fixes the shape of a pool at start time.
type Config struct {
	// Workers is the number of sampling goroutines.
	Workers int
	// BatchSize is the number of samples per batch.
	BatchSize int
	// Rounds is the total number of batches to run; 0 runs until stopped.
	Rounds uint64
}

// Bounded reports whether the pool stops on its own after Rounds batches.
func (c Config) Bounded() bool {
	return c.Rounds > 0
}

func (c Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be >= 1, got %d", ErrInvalidConfig, c.BatchSize)
	}
	return nil
}

// Observer is notified of worker lifecycle and batch timings.
// Implementations must be safe for concurrent use.
type Observer interface {
	WorkerStarted(worker int)
	WorkerStopped(worker int)
	ObserveBatch(worker int, r coprime.BatchResult, d time.Duration)
}

// Pool runs sampling workers against one accumulator.
type Pool struct {
	cfg  Config
	acc  *accum.Accumulator
	stop cancel.Canceler

	entropy  io.Reader
	observer Observer
	logger   *slog.Logger

	claimed atomic.Uint64
	running atomic.Bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithEntropy sets the reader workers seed their samplers from.
// Defaults to crypto/rand.Reader.
func WithEntropy(r io.Reader) Option {
	return func(p *Pool) {
		p.entropy = r
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(p *Pool) {
		p.observer = o
	}
}

// WithLogger sets the pool's logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = l
	}
}

// New creates a Pool. stop is the shared stop flag polled by every worker.
func New(cfg Config, acc *accum.Accumulator, stop cancel.Canceler, opts ...Option) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: nil accumulator", ErrInvalidConfig)
	}
	if stop == nil {
		return nil, fmt.Errorf("%w: nil stop flag", ErrInvalidConfig)
	}

	p := &Pool{
		cfg:    cfg,
		acc:    acc,
		stop:   stop,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "pool"))
	return p, nil
}

// Config returns the pool's configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// Run starts the workers and blocks until all of them have returned.
//
// Workers return when the stop flag is set, when ctx is done, when the
// bounded round budget is spent, or on the first worker error. Run returns
// that first error; a stop or a spent budget is not an error. A Pool can
// only be run once.
func (p *Pool) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return errors.New("pool: already run")
	}

	mode := "unbounded"
	if p.cfg.Bounded() {
		mode = "bounded"
	}
	p.logger.Info("starting workers",
		slog.Int("workers", p.cfg.Workers),
		slog.Int("batch_size", p.cfg.BatchSize),
		slog.String("mode", mode),
		slog.Uint64("rounds", p.cfg.Rounds),
	)

	g, gctx := errgroup.WithContext(ctx)
	for id := 0; id < p.cfg.Workers; id++ {
		g.Go(func() error {
			return p.work(gctx, id)
		})
	}
	err := g.Wait()

	totals := p.acc.Read()
	p.logger.Info("workers stopped",
		slog.Uint64("samples", totals.Samples),
		slog.Uint64("hits", totals.Hits),
		slog.Uint64("batches", totals.Batches),
		slog.Float64("estimate", totals.Estimate()),
	)
	return err
}

func (p *Pool) work(ctx context.Context, id int) error {
	sampler, err := coprime.NewSampler(p.entropy)
	if err != nil {
		return fmt.Errorf("pool: worker %d: %w", id, err)
	}

	if p.observer != nil {
		p.observer.WorkerStarted(id)
		defer p.observer.WorkerStopped(id)
	}

	for p.proceed(ctx) {
		start := time.Now()
		r := coprime.RunBatch(sampler, p.cfg.BatchSize)
		if p.observer != nil {
			p.observer.ObserveBatch(id, r, time.Since(start))
		}

		if _, err := p.acc.Merge(id, r); err != nil {
			return fmt.Errorf("pool: worker %d: %w", id, err)
		}
	}

	p.logger.Debug("worker exiting", slog.Int("worker", id))
	return nil
}

// proceed reports whether a worker should run another batch, claiming one
// round from the budget in bounded mode.
func (p *Pool) proceed(ctx context.Context) bool {
	if p.stop.Done() || ctx.Err() != nil {
		return false
	}
	if !p.cfg.Bounded() {
		return true
	}
	return p.claimed.Add(1) <= p.cfg.Rounds
}
