//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetGroup starts cmd in its own process group so that KillProcessGroup
// reaches every child it spawns (pdflatex forks helpers such as mktexpk).
func SetGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) error {
	if pid <= 0 {
		return syscall.ESRCH
	}
	return syscall.Kill(-pid, syscall.SIGKILL)
}
