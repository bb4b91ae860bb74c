// ABOUTME: Unix process group handling so a timed-out hook takes its children with it
// ABOUTME: Setpgid on start, SIGKILL to the whole group on cancel

//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
