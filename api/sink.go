// Package api
// Author: momentics <momentics@gmail.com>
//
// Diagnostics sink contract. The sink is constructed by whoever
// assembles the pipeline and injected into it; there is no process-wide
// logger in this module.

package api

// Sink receives human-readable status lines from the pipeline loops.
// Calls are fire-and-forget from the caller's perspective;
// implementations must serialize concurrent writers themselves.
type Sink interface {
	// Log records one line. When console is set the line is also
	// mirrored to the interactive console.
	Log(line string, console bool)

	// Close flushes and releases the sink's resources.
	Close() error
}
