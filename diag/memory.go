// File: diag/memory.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package diag

import (
	"sync"

	"github.com/momentics/tickpipe/api"
)

var (
	_ api.Sink = (*MemorySink)(nil)
	_ api.Sink = NopSink{}
)

// MemorySink captures lines in memory for test assertions.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

// NewMemorySink returns an empty capturing sink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Log appends line to the capture buffer.
func (s *MemorySink) Log(line string, _ bool) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

// Close is a no-op.
func (s *MemorySink) Close() error { return nil }

// Lines returns a copy of everything logged so far.
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// NopSink discards every line; used by benchmarks.
type NopSink struct{}

// Log discards the line.
func (NopSink) Log(string, bool) {}

// Close is a no-op.
func (NopSink) Close() error { return nil }
