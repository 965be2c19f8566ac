package queue

import (
	"sync/atomic"
)

// RingBuffer is the "ring" report queue: a bounded, lock-free ring with one
// producer and one consumer.
//
// In this program the producer is whichever worker currently holds the
// accumulator mutex (report.Queued pushes from inside Merge), and the
// consumer is the report drain goroutine. The mutex is what makes many
// workers look like one producer; nothing in RingBuffer serializes Push.
//
// Overlapping Push calls, or overlapping Pop calls, panic instead of
// silently reordering or losing report lines.
type RingBuffer[T any] struct {
	slots []T
	mask  uint64

	_ [56]byte //nolint:unused

	// written next by Push; read by Pop to see what is published
	head atomic.Uint64

	_ [56]byte //nolint:unused

	// read next by Pop; read by Push to see what is free
	tail atomic.Uint64

	_ [56]byte //nolint:unused

	pushing atomic.Uint32
	popping atomic.Uint32
}

// NewRingBuffer creates a RingBuffer holding at least size snapshots,
// rounded up to a power of two. size < 1 means 1.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	n := uint64(1)
	for int(n) < size {
		n <<= 1
	}
	return &RingBuffer[T]{
		slots: make([]T, n),
		mask:  n - 1,
	}
}

// Push publishes v to the consumer, or returns false when every slot is
// still waiting to be drained. Calls must not overlap.
func (r *RingBuffer[T]) Push(v T) bool {
	if !r.pushing.CompareAndSwap(0, 1) {
		panic("queue: overlapping Push on RingBuffer; producers must be serialized")
	}
	defer r.pushing.Store(0)

	head := r.head.Load()
	if head-r.tail.Load() == uint64(len(r.slots)) {
		return false
	}
	r.slots[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// Pop takes the oldest published item, or returns false when nothing is
// pending. Only the drain goroutine may call Pop.
func (r *RingBuffer[T]) Pop() (T, bool) {
	var zero T
	if !r.popping.CompareAndSwap(0, 1) {
		panic("queue: overlapping Pop on RingBuffer; only one consumer allowed")
	}
	defer r.popping.Store(0)

	tail := r.tail.Load()
	if tail == r.head.Load() {
		return zero, false
	}
	i := tail & r.mask
	v := r.slots[i]
	// Drop the reference so a drained snapshot can be collected.
	r.slots[i] = zero
	r.tail.Store(tail + 1)
	return v, true
}

// Len returns the number of pending items. Racy by nature; use it for
// reporting, not for control flow against Push.
func (r *RingBuffer[T]) Len() int {
	// tail first: head only grows, so head >= tail.
	tail := r.tail.Load()
	return int(r.head.Load() - tail)
}

// Cap returns the number of slots.
func (r *RingBuffer[T]) Cap() int {
	return len(r.slots)
}
