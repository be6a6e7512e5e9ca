// File: pool/slotpool.go
// Package pool implements the fixed-capacity record allocator backing
// the pipeline's channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SlotPool owns a contiguous arena of Record slots and an index-based
// LIFO free list. Allocation and release are O(1) and touch no heap
// after construction. Indices instead of raw pointers: a Ref cannot
// dangle outside the arena it came from.

package pool

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/tickpipe/api"
)

// Ref identifies a checked-out slot within its pool.
type Ref int32

// NilRef is returned by Alloc when the pool is exhausted.
const NilRef Ref = -1

// SlotPool is a fixed-capacity free-list allocator of Record slots.
// Capacity is set at construction and never grows.
//
// SlotPool is not safe for concurrent use. In this system it is
// touched only during single-threaded channel construction and
// teardown; callers needing concurrent allocation must synchronize
// externally.
type SlotPool struct {
	arena []api.Record
	free  []Ref // LIFO for cache locality

	totalAlloc atomic.Uint64
	totalFree  atomic.Uint64
}

// Stats reports cumulative allocation activity.
type Stats struct {
	TotalAlloc uint64
	TotalFree  uint64
	InUse      int
}

// New reserves an arena of size contiguous Record slots and seeds the
// free list with every index. size must be positive.
func New(size int) (*SlotPool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool: size %d: %w", size, api.ErrInvalidArgument)
	}
	p := &SlotPool{
		arena: make([]api.Record, size),
		free:  make([]Ref, 0, size),
	}
	// Seed descending so the first Alloc hands out slot 0.
	for i := size - 1; i >= 0; i-- {
		p.free = append(p.free, Ref(i))
	}
	return p, nil
}

// Alloc pops one slot from the free list. NilRef signals exhaustion,
// which is ordinary backpressure for the caller, not an error.
func (p *SlotPool) Alloc() Ref {
	if len(p.free) == 0 {
		return NilRef
	}
	r := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.totalAlloc.Add(1)
	return r
}

// Free pushes a slot back onto the free list. Freeing NilRef is a
// no-op. Freeing the same Ref twice is a caller bug the pool does not
// detect.
func (p *SlotPool) Free(r Ref) {
	if r == NilRef {
		return
	}
	p.free = append(p.free, r)
	p.totalFree.Add(1)
}

// At resolves a checked-out Ref to its slot storage.
func (p *SlotPool) At(r Ref) *api.Record {
	return &p.arena[r]
}

// Cap returns the fixed slot count.
func (p *SlotPool) Cap() int { return len(p.arena) }

// Available returns how many slots are currently free.
func (p *SlotPool) Available() int { return len(p.free) }

// Snapshot returns cumulative allocation counters.
func (p *SlotPool) Snapshot() Stats {
	a := p.totalAlloc.Load()
	f := p.totalFree.Load()
	return Stats{TotalAlloc: a, TotalFree: f, InUse: int(a - f)}
}
