//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup starts cmd in a new process group so that
// KillProcessGroup reaches the children it spawns.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
