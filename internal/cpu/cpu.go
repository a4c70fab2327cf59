// Package cpu pins benchmark processes to a single CPU core so repeated
// cycles see the same cache and scheduler conditions.
package cpu

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrUnsupported is returned on platforms without process affinity.
	ErrUnsupported = errors.New("cpu pinning is not supported on this platform")
	// ErrInvalidCPU is returned for negative core ids.
	ErrInvalidCPU = errors.New("invalid cpu id")
)

// NumCPU returns the number of logical CPUs available.
func NumCPU() int {
	return runtime.NumCPU()
}

// normalize maps cpuID into [0, NumCPU()-1].
func normalize(cpuID int) (int, error) {
	if cpuID < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCPU, cpuID)
	}
	return cpuID % NumCPU(), nil
}
