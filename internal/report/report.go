// Package report turns accumulator snapshots into observable output.
//
// Every type here implements accum.Sink. Sinks are called once per merge,
// in merge order, either directly inside the accumulator's critical section
// or from the single drain goroutine of a Queued sink.
package report

import (
	"errors"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
)

// DefaultDigits is the number of significant digits printed per estimate.
const DefaultDigits = 30

// ErrClosed is returned by a Queued sink after Close.
var ErrClosed = errors.New("report: sink closed")

// Multi fans each snapshot out to every sink in order and joins their
// errors. Nil sinks are skipped.
func Multi(sinks ...accum.Sink) accum.Sink {
	kept := make([]accum.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return multi(kept)
}

type multi []accum.Sink

func (m multi) Report(s accum.Snapshot) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Report(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
