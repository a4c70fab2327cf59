//go:build darwin

package cpu

// PinProcess always fails: macOS offers affinity hints only, not pinning.
func PinProcess(pid, cpuID int) error {
	if _, err := normalize(cpuID); err != nil {
		return err
	}
	return ErrUnsupported
}
