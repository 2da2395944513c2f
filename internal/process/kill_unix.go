//go:build !windows

// Package process terminates the Chrome process tree left behind by a
// browser launch.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with it. Errors are ignored; the
// launcher's own Kill follows.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
