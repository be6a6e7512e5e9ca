// File: control/stats.go
// Package control exposes runtime counters for pipeline monitoring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PipelineStats is a fixed set of atomic counters rather than a
// mutex-guarded registry: the hot loops record per item and cannot
// afford lock traffic. Snapshot gives monitoring a consistent-enough
// view without stopping either loop.

package control

import (
	"fmt"
	"sync/atomic"
)

// PipelineStats accumulates pipeline activity. Both loops write
// concurrently; every field is independently atomic.
type PipelineStats struct {
	// Pushed counts records accepted by the channel.
	Pushed atomic.Uint64
	// Processed counts records the consumer handled, drain pass included.
	Processed atomic.Uint64
	// Batches counts completed producer batches.
	Batches atomic.Uint64
	// FullRetries counts producer retries against a full channel.
	FullRetries atomic.Uint64
	// IdleYields counts consumer yields on the backoff ladder.
	IdleYields atomic.Uint64
	// IdleSleeps counts consumer sleeps on the backoff ladder.
	IdleSleeps atomic.Uint64
	// Drained counts records processed after shutdown was signalled.
	Drained atomic.Uint64
}

// Snapshot returns the current counter values keyed by name.
func (s *PipelineStats) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"pushed":       s.Pushed.Load(),
		"processed":    s.Processed.Load(),
		"batches":      s.Batches.Load(),
		"full_retries": s.FullRetries.Load(),
		"idle_yields":  s.IdleYields.Load(),
		"idle_sleeps":  s.IdleSleeps.Load(),
		"drained":      s.Drained.Load(),
	}
}

// String renders the counters for a diagnostic line.
func (s *PipelineStats) String() string {
	return fmt.Sprintf("pushed=%d processed=%d batches=%d full_retries=%d idle_yields=%d idle_sleeps=%d drained=%d",
		s.Pushed.Load(), s.Processed.Load(), s.Batches.Load(),
		s.FullRetries.Load(), s.IdleYields.Load(), s.IdleSleeps.Load(), s.Drained.Load())
}
