package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/cancel"
	"github.com/randomizedcoder/coprime-pi/internal/config"
	"github.com/randomizedcoder/coprime-pi/internal/metrics"
	"github.com/randomizedcoder/coprime-pi/internal/pool"
	"github.com/randomizedcoder/coprime-pi/internal/queue"
	"github.com/randomizedcoder/coprime-pi/internal/report"
	"github.com/randomizedcoder/coprime-pi/internal/tick"
)

// run wires the estimator together and blocks until the pool has stopped,
// either on interrupt or after the bounded round count, and every report
// line has been written.
//
// Anything that can fail at start time (metrics address, ticker kind, pool
// config) fails before the first sample is drawn.
func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer, sigOpts ...cancel.SignalOption) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With(slog.String("run_id", uuid.NewString()))

	var ln net.Listener
	if cfg.Metrics.Addr != "" {
		var err error
		if ln, err = metrics.Listen(cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	served := false
	defer func() {
		if ln != nil && !served {
			ln.Close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sinks := []accum.Sink{m}
	if cfg.Progress.Interval > 0 {
		ticker, err := tick.New(cfg.Progress.Ticker, cfg.Progress.Interval, cfg.Progress.Every)
		if err != nil {
			return err
		}
		defer ticker.Stop()
		sinks = append(sinks, report.NewThroughput(ticker, logger, time.Now()))
	}

	var out accum.Sink = report.NewLineWriter(stdout, cfg.Precision)
	var queued *report.Queued
	if q := queue.New[accum.Snapshot](cfg.Report.Queue, cfg.Report.QueueSize); q != nil {
		queued = report.NewQueued(q, out)
		out = queued
	}
	sinks = append(sinks, out)

	stop := cancel.New(ctx, cfg.Cancel)
	acc := accum.New(report.Multi(sinks...), accum.WithLogger(logger))
	p, err := pool.New(pool.Config{
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
		Rounds:    cfg.Rounds,
	}, acc, stop, pool.WithObserver(m), pool.WithLogger(logger))
	if err != nil {
		if queued != nil {
			_ = queued.Close()
		}
		return err
	}

	ctrl := cancel.NewSignalController(stop, append([]cancel.SignalOption{cancel.WithSignalLogger(logger)}, sigOpts...)...)
	ctrl.Start()
	defer ctrl.Close()

	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	// srvDone stays nil, and never ready, without a metrics server.
	var srvDone chan error
	if ln != nil {
		served = true
		srvDone = make(chan error, 1)
		go func() {
			srvDone <- metrics.Serve(srvCtx, ln, reg, logger)
		}()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- p.Run(ctx)
	}()

	var srvErr error
	srvFinished := false
	select {
	case <-ctrl.Stopped():
		logger.Info("waiting for workers to finish their batches")
		err = <-errc
	case srvErr = <-srvDone:
		// The endpoint died mid-run; stop rather than sample unobserved.
		srvFinished = true
		ctrl.Trigger("metrics server failed")
		err = <-errc
	case err = <-errc:
	}

	if queued != nil {
		err = errors.Join(err, queued.Close())
	}
	stopServer()
	if srvDone != nil && !srvFinished {
		srvErr = <-srvDone
	}
	err = errors.Join(err, srvErr)

	totals := acc.Read()
	logger.Info("done",
		slog.Uint64("samples", totals.Samples),
		slog.Uint64("hits", totals.Hits),
		slog.Bool("saturated", totals.Saturated),
	)
	return err
}
