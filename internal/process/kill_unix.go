//go:build !windows

// Package process manages child process groups: browsers launched by the
// exporter and programs run by code chunks.
package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts cmd in its own process group so the whole tree can be
// killed at once. Must be called before cmd.Start.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the caller's own Kill/Wait is the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
