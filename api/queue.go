// Package api
// Author: momentics@gmail.com
//
// Bounded record queue contract shared by the lock-free channel and
// the benchmark baselines.

package api

// Queue is a bounded, non-blocking queue of records.
type Queue interface {
	// Push copies rec in, returning false when the queue is full.
	Push(rec Record) bool
	// Pop copies the oldest record into out, returning false when the
	// queue is empty; out is untouched on failure.
	Pop(out *Record) bool
	// Len returns the current number of queued records.
	Len() int
	// Cap returns the usable capacity, or a negative value for
	// unbounded implementations.
	Cap() int
}
