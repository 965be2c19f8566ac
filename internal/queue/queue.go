// Package queue provides the bounded SPSC queues that carry report
// snapshots from the merge critical section to the output goroutine.
//
// Two implementations of the Queue interface:
//   - ChannelQueue: buffered channel with non-blocking select
//   - RingBuffer: lock-free ring buffer with SPSC guards
//
// # Single producer
//
// Every Push happens while the accumulator mutex is held, so although many
// workers produce snapshots, at most one of them is inside Push at any time
// and the mutex orders consecutive pushes. That satisfies the SPSC contract
// and keeps the queue order identical to the merge order.
//
// The RingBuffer panics if the contract is ever violated.
package queue

// Queue is a single-producer single-consumer queue.
//
// Implementations are non-blocking: Push returns false if full,
// Pop returns false if empty.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)

	// Len returns the number of queued items. May be slightly stale.
	Len() int
}

// Queue kinds accepted by New.
const (
	KindRing    = "ring"
	KindChannel = "channel"
)

// New returns a queue of the given kind, or nil for any other kind
// (including "none"), meaning no queue is used.
func New[T any](kind string, size int) Queue[T] {
	switch kind {
	case KindRing:
		return NewRingBuffer[T](size)
	case KindChannel:
		return NewChannel[T](size)
	default:
		return nil
	}
}
