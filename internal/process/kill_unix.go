//go:build !windows

package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the caller's own Kill provides the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
