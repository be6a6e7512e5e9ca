// Package api
// Author: momentics@gmail.com
//
// CPU affinity capability contract.

package api

// Pinner binds the calling OS thread to a logical CPU.
//
// Pinning is a performance hint with a best-effort contract: it may
// fail on unsupported platforms or for invalid CPU indices, and
// callers must remain correct when it does.
type Pinner interface {
	// Pin locks the calling goroutine to its OS thread and binds that
	// thread to cpuID.
	Pin(cpuID int) error
}
