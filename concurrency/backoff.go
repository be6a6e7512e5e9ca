// File: concurrency/backoff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IdleBackoff is the consumer's escalating idle policy: a near-empty
// queue gets immediate re-checks for minimum latency, a persistently
// empty queue degrades to yielding and then to capped sleeping so an
// idle pipeline does not burn a core.

package concurrency

import (
	"runtime"
	"time"
)

// Action identifies which rung of the ladder Wait executed.
type Action int

const (
	ActionSpin Action = iota
	ActionYield
	ActionSleep
)

// IdleBackoff escalates through three rungs as consecutive misses
// accumulate: busy re-poll below SpinLimit, cooperative yield below
// YieldLimit, then sleeps starting at SleepBase and doubling per miss
// up to SleepMax. Reset after any successful poll.
//
// Not safe for concurrent use; each consumer owns its own ladder.
type IdleBackoff struct {
	SpinLimit  uint64
	YieldLimit uint64
	SleepBase  time.Duration
	SleepMax   time.Duration

	misses     uint64
	sleepShift uint
	sleeps     uint64
}

// NewIdleBackoff returns a ladder with the default thresholds:
// 10k misses spinning, 100k yielding, then 10µs doubling to 100µs.
func NewIdleBackoff() *IdleBackoff {
	return &IdleBackoff{
		SpinLimit:  10_000,
		YieldLimit: 100_000,
		SleepBase:  10 * time.Microsecond,
		SleepMax:   100 * time.Microsecond,
	}
}

// Reset drops back to the hot-spin rung after useful work.
func (b *IdleBackoff) Reset() {
	b.misses = 0
	b.sleepShift = 0
	b.sleeps = 0
}

// Sleeps returns how many times the ladder has slept since the last
// Reset. Callers use it to pace "still idle" diagnostics.
func (b *IdleBackoff) Sleeps() uint64 { return b.sleeps }

// next advances the miss count and picks the rung. Kept separate from
// Wait so the escalation points are testable without real sleeps. The
// miss counter saturates at YieldLimit: once sleeping, stay sleeping.
func (b *IdleBackoff) next() (Action, time.Duration) {
	if b.misses < b.YieldLimit {
		b.misses++
	}
	if b.misses < b.SpinLimit {
		return ActionSpin, 0
	}
	if b.misses < b.YieldLimit {
		return ActionYield, 0
	}
	d := b.SleepBase << b.sleepShift
	if d >= b.SleepMax {
		d = b.SleepMax
	} else {
		b.sleepShift++
	}
	b.sleeps++
	return ActionSleep, d
}

// Wait performs one rung of the ladder and reports which rung it was,
// so the caller can account yields and sleeps separately.
func (b *IdleBackoff) Wait() Action {
	action, d := b.next()
	switch action {
	case ActionYield:
		runtime.Gosched()
	case ActionSleep:
		time.Sleep(d)
	}
	return action
}
