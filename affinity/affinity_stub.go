//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without thread-affinity support.

package affinity

import (
	"fmt"

	"github.com/momentics/tickpipe/api"
)

// setAffinityPlatform reports that pinning is unavailable here.
func setAffinityPlatform(cpuID int) error {
	return fmt.Errorf("affinity: cpu %d: %w", cpuID, api.ErrNotSupported)
}
