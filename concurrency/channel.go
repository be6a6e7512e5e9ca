// File: concurrency/channel.go
// Package concurrency implements the lock-free primitives of tickpipe.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Channel is a bounded single-producer/single-consumer ring of
// pool-backed Record slots. Head and tail are padded onto separate
// cache lines to prevent false sharing between the two sides.

package concurrency

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/tickpipe/api"
	"github.com/momentics/tickpipe/pool"
)

// Ensure compile-time contract compliance.
var _ api.Queue = (*Channel)(nil)

// Channel is an SPSC lock-free bounded queue of Records.
//
// Concurrency contract: exactly one goroutine may call Push and
// exactly one (possibly different) goroutine may call Pop over the
// channel's lifetime. Concurrent Push from two goroutines, or
// concurrent Pop from two goroutines, is undefined behavior by design;
// the algorithm provides no cross-producer or cross-consumer safety
// and no runtime detection of the violation.
//
// One ring slot is reserved to disambiguate full from empty, so a
// channel built with capacity C holds at most C-1 records; see Cap.
type Channel struct {
	slots    []*api.Record
	refs     []pool.Ref
	pool     *pool.SlotPool
	capacity uint64
	closed   bool

	// head is the next slot the consumer reads; only Pop writes it.
	head atomic.Uint64
	_    [api.CacheLineSize]byte // keep producer and consumer indices apart
	// tail is the next slot the producer writes; only Push writes it.
	tail atomic.Uint64
	_    [api.CacheLineSize]byte
}

// NewChannel checks out capacity slots from p for the channel's entire
// lifetime. It fails with ErrResourceExhausted when the pool cannot
// supply them, returning every slot taken so far; no partial channel
// is ever produced. The minimum capacity is 2 (one usable slot plus
// the sentinel).
func NewChannel(capacity int, p *pool.SlotPool) (*Channel, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("channel: capacity %d: %w", capacity, api.ErrInvalidArgument)
	}
	c := &Channel{
		slots:    make([]*api.Record, 0, capacity),
		refs:     make([]pool.Ref, 0, capacity),
		pool:     p,
		capacity: uint64(capacity),
	}
	for i := 0; i < capacity; i++ {
		r := p.Alloc()
		if r == pool.NilRef {
			for _, taken := range c.refs {
				p.Free(taken)
			}
			return nil, fmt.Errorf("channel: pool supplied %d of %d slots: %w",
				i, capacity, api.ErrResourceExhausted)
		}
		c.refs = append(c.refs, r)
		c.slots = append(c.slots, p.At(r))
	}
	return c, nil
}

// Push copies rec into the ring. Producer-only.
//
// The load of tail is uncontended (only Push writes it); the load of
// head observes the consumer's progress. Go's atomic store of tail has
// release semantics and the consumer's atomic load has acquire
// semantics, so a consumer observing the new tail also observes the
// fully written slot. That pairing is the correctness core of the
// design: no reader ever sees a partially written record.
func (c *Channel) Push(rec api.Record) bool {
	tail := c.tail.Load()
	next := (tail + 1) % c.capacity
	if next == c.head.Load() {
		return false // full; caller decides the retry policy
	}
	*c.slots[tail] = rec
	c.tail.Store(next)
	return true
}

// Pop copies the oldest record into out. Consumer-only, symmetric to
// Push. out is untouched when the ring is empty. The store of head
// publishes the slot back to the producer for reuse.
func (c *Channel) Pop(out *api.Record) bool {
	head := c.head.Load()
	if head == c.tail.Load() {
		return false // empty
	}
	*out = *c.slots[head]
	c.head.Store((head + 1) % c.capacity)
	return true
}

// Len returns the number of queued records. Approximate while the
// other side is active.
func (c *Channel) Len() int {
	head := c.head.Load()
	tail := c.tail.Load()
	if tail >= head {
		return int(tail - head)
	}
	return int(c.capacity - head + tail)
}

// Cap returns the usable capacity: one slot below the constructed
// capacity, reserved as the full/empty disambiguator. Size channels
// accordingly.
func (c *Channel) Cap() int { return int(c.capacity) - 1 }

// Close returns every borrowed slot to the originating pool.
// Call only once both sides have stopped; idempotent.
func (c *Channel) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, r := range c.refs {
		c.pool.Free(r)
	}
	c.refs = nil
	c.slots = nil
}
