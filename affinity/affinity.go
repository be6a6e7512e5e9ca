// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Best-effort CPU pinning for the pipeline loops. Platform-specific
// implementations live in separate files (affinity_linux.go,
// affinity_windows.go, ...) guarded by build tags.
//
// Pinning is injected into the pipeline as an api.Pinner capability:
// the concurrency core stays correct whether or not the host honors
// the request.

package affinity

import (
	"fmt"
	"runtime"

	"github.com/momentics/tickpipe/api"
)

// Pinner implements api.Pinner on top of the host OS scheduler.
type Pinner struct{}

var _ api.Pinner = (*Pinner)(nil)

// New returns the platform pinner.
func New() *Pinner { return &Pinner{} }

// Pin locks the calling goroutine to its OS thread and binds that
// thread to cpuID. On failure the goroutine stays locked but unpinned;
// callers treat the result as a performance hint only.
func (*Pinner) Pin(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return fmt.Errorf("affinity: cpu %d out of range [0,%d): %w",
			cpuID, runtime.NumCPU(), api.ErrInvalidArgument)
	}
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}

// Nop accepts every pin request without touching the OS. Used by tests
// and by deployments that leave scheduling to the runtime.
type Nop struct{}

var _ api.Pinner = Nop{}

// Pin is a no-op that always succeeds.
func (Nop) Pin(int) error { return nil }
