package report

import (
	"runtime"
	"sync"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/queue"
)

// Queued moves output off the merge critical section.
//
// Report pushes the snapshot into an SPSC queue and returns; a single drain
// goroutine forwards queued snapshots to the downstream sink in push order.
// Report runs under the accumulator mutex, so pushes are serialized and the
// downstream order is exactly the merge order.
//
// When the queue is full Report yields until the drain goroutine frees a
// slot. Once the downstream sink fails, later Reports return that error.
type Queued struct {
	q    queue.Queue[accum.Snapshot]
	next accum.Sink

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
}

// NewQueued starts the drain goroutine. Call Close to flush and stop it.
func NewQueued(q queue.Queue[accum.Snapshot], next accum.Sink) *Queued {
	s := &Queued{
		q:    q,
		next: next,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.drain()
	return s
}

// Report enqueues a snapshot for the drain goroutine.
func (s *Queued) Report(snap accum.Snapshot) error {
	if err := s.Err(); err != nil {
		return err
	}
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}

	for !s.q.Push(snap) {
		select {
		case <-s.done:
			return ErrClosed
		default:
		}
		runtime.Gosched()
	}

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close drains every queued snapshot, stops the drain goroutine and returns
// the first downstream error, if any.
func (s *Queued) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
	return s.Err()
}

// Err returns the first downstream error.
func (s *Queued) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Pending returns the number of snapshots waiting in the queue.
func (s *Queued) Pending() int {
	return s.q.Len()
}

func (s *Queued) drain() {
	defer close(s.done)
	for {
		s.flush()
		select {
		case <-s.wake:
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *Queued) flush() {
	for {
		snap, ok := s.q.Pop()
		if !ok {
			return
		}
		if s.Err() != nil {
			continue
		}
		if err := s.next.Report(snap); err != nil {
			s.errMu.Lock()
			s.err = err
			s.errMu.Unlock()
		}
	}
}
