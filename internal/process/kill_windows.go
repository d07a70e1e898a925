//go:build windows

// Package process manages child process groups: browsers launched by the
// exporter and programs run by code chunks.
package process

import (
	"os/exec"
	"strconv"
	"syscall"
)

// Isolate starts cmd in a new process group. Must be called before cmd.Start.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
}

// KillProcessGroup kills a process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the caller's own Kill/Wait is the fallback.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
