//go:build linux

package cpu

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PinProcess restricts pid to a single CPU core. Ids beyond the number of
// cores wrap around.
//
// Threads the process already started keep their old mask, so call it right
// after the process is started.
func PinProcess(pid, cpuID int) error {
	cpuID, err := normalize(cpuID)
	if err != nil {
		return err
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(pid, &mask); err != nil {
		return fmt.Errorf("pin pid %d to cpu %d: %w", pid, cpuID, err)
	}
	return nil
}
