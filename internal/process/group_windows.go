//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup starts cmd in a new process group.
// taskkill /T walks the process tree, so this only detaches console signals.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
}
