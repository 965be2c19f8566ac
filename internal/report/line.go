package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/estimate"
)

// LineWriter writes one "<samples>: <estimate>" line per snapshot.
//
// NOT safe for concurrent use; callers serialize Report, which the
// accumulator lock and the Queued drain goroutine both do.
type LineWriter struct {
	w      io.Writer
	digits int
	buf    []byte
}

// NewLineWriter creates a LineWriter printing digits significant digits.
// digits < 1 means DefaultDigits.
func NewLineWriter(w io.Writer, digits int) *LineWriter {
	if digits < 1 {
		digits = DefaultDigits
	}
	return &LineWriter{
		w:      w,
		digits: digits,
		buf:    make([]byte, 0, 64),
	}
}

// Report formats and writes the line for s.
func (l *LineWriter) Report(s accum.Snapshot) error {
	l.buf = strconv.AppendUint(l.buf[:0], s.Totals.Samples, 10)
	l.buf = append(l.buf, ": "...)
	l.buf = append(l.buf, estimate.Text(s.Totals.Samples, s.Totals.Hits, l.digits)...)
	l.buf = append(l.buf, '\n')

	if _, err := l.w.Write(l.buf); err != nil {
		return fmt.Errorf("report: write line: %w", err)
	}
	return nil
}
