// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values used across the tickpipe module. Transient
// backpressure (full channel, empty channel, exhausted pool at
// runtime) is deliberately not represented here: those are boolean
// outcomes the caller handles with a retry or backoff policy.

package api

import "fmt"

var (
	// ErrInvalidArgument reports a construction-time parameter the
	// component cannot accept.
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// ErrResourceExhausted reports that a fixed-capacity resource
	// could not be reserved at construction time. Fatal to the
	// constructing component; never retried internally.
	ErrResourceExhausted = fmt.Errorf("resource exhausted")

	// ErrNotSupported reports a capability the host platform does not
	// provide.
	ErrNotSupported = fmt.Errorf("operation not supported")

	// ErrAlreadyRunning reports a lifecycle transition attempted on a
	// pipeline that is not idle.
	ErrAlreadyRunning = fmt.Errorf("pipeline already running")
)
