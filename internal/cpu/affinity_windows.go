//go:build windows

package cpu

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	setProcessAffinityMask = kernel32.NewProc("SetProcessAffinityMask")
)

// PinProcess restricts pid to a single CPU core. Ids beyond the number of
// cores wrap around.
func PinProcess(pid, cpuID int) error {
	cpuID, err := normalize(cpuID)
	if err != nil {
		return err
	}

	handle, err := windows.OpenProcess(
		windows.PROCESS_SET_INFORMATION|windows.PROCESS_QUERY_INFORMATION,
		false, uint32(pid))
	if err != nil {
		return fmt.Errorf("open process %d: %w", pid, err)
	}
	defer func() { _ = windows.CloseHandle(handle) }()

	// Bit N = CPU N
	mask := uintptr(1) << cpuID
	ok, _, callErr := setProcessAffinityMask.Call(uintptr(handle), mask)
	if ok == 0 {
		return fmt.Errorf("pin pid %d to cpu %d: %w", pid, cpuID, callErr)
	}
	return nil
}
