package cancel

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitInterrupted is the status used when a second interrupt forces exit.
const ExitInterrupted = 130

// SignalController raises a Canceler on the first interrupt signal and
// releases whoever waits on Stopped.
//
// A second signal after the stop has been raised terminates the process
// immediately with ExitInterrupted; workers that ignore the stop flag can
// always be escaped that way.
//
// Thread Safety: Safe for concurrent use.
type SignalController struct {
	stop    Canceler
	logger  *slog.Logger
	signals []os.Signal

	notify func(chan<- os.Signal, ...os.Signal)
	reset  func(chan<- os.Signal)
	exit   func(int)

	ch      chan os.Signal
	stopped chan struct{}
	quit    chan struct{}

	stopOnce  sync.Once
	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// SignalOption configures a SignalController.
type SignalOption func(*SignalController)

// WithSignals replaces the default SIGINT and SIGTERM set.
func WithSignals(sigs ...os.Signal) SignalOption {
	return func(s *SignalController) {
		s.signals = sigs
	}
}

// WithSignalLogger sets the controller's logger.
func WithSignalLogger(l *slog.Logger) SignalOption {
	return func(s *SignalController) {
		s.logger = l
	}
}

// WithNotifier replaces signal.Notify and signal.Stop, for tests.
func WithNotifier(notify func(chan<- os.Signal, ...os.Signal), reset func(chan<- os.Signal)) SignalOption {
	return func(s *SignalController) {
		s.notify = notify
		s.reset = reset
	}
}

// WithExit replaces os.Exit for the forced-exit path.
func WithExit(exit func(int)) SignalOption {
	return func(s *SignalController) {
		s.exit = exit
	}
}

// NewSignalController creates a controller that cancels stop on interrupt.
// Call Start to begin listening.
func NewSignalController(stop Canceler, opts ...SignalOption) *SignalController {
	s := &SignalController{
		stop:    stop,
		logger:  slog.Default(),
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		notify:  signal.Notify,
		reset:   signal.Stop,
		exit:    os.Exit,
		ch:      make(chan os.Signal, 2),
		stopped: make(chan struct{}),
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "signal_controller"))
	return s
}

// Start installs the signal handler. Calling Start more than once is a no-op.
func (s *SignalController) Start() {
	s.startOnce.Do(func() {
		s.notify(s.ch, s.signals...)
		s.wg.Add(1)
		go s.loop()
	})
}

func (s *SignalController) loop() {
	defer s.wg.Done()
	for {
		select {
		case sig := <-s.ch:
			if s.isStopped() {
				s.logger.Warn("second interrupt, exiting immediately",
					slog.String("signal", sig.String()),
				)
				s.exit(ExitInterrupted)
				continue
			}
			s.Trigger(sig.String())
		case <-s.quit:
			return
		}
	}
}

// Trigger raises the stop flag as if a signal had arrived.
// Only the first call has any effect.
func (s *SignalController) Trigger(reason string) {
	s.stopOnce.Do(func() {
		s.logger.Info("stop requested, workers finish their current batch",
			slog.String("reason", reason),
		)
		s.stop.Cancel()
		close(s.stopped)
	})
}

// Stopped is closed once the stop flag has been raised.
func (s *SignalController) Stopped() <-chan struct{} {
	return s.stopped
}

// Close removes the signal handler and waits for the listener to exit.
// It does not raise the stop flag.
func (s *SignalController) Close() {
	s.closeOnce.Do(func() {
		s.reset(s.ch)
		close(s.quit)
		s.wg.Wait()
	})
}

func (s *SignalController) isStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}
