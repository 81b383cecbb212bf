//go:build unix

package daemon

import (
	"syscall"
)

// processExists probes the pid with signal 0, which checks for existence
// without delivering anything.
func processExists(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
