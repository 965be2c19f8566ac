// Package combined holds benchmarks that exercise the estimator's parts
// together: the worker hot loop (stop check, batch, merge), the report
// hand-off, and the transport used to move batch results to the merger.
//
// Isolated micro-benchmarks live next to each package; these capture the
// cumulative cost a worker actually pays per batch.
package combined
