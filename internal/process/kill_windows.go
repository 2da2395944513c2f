//go:build windows

// Package process terminates the Chrome process tree left behind by a
// browser launch.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child processes with taskkill
// (/F force, /T tree). Errors are ignored; the launcher's own Kill follows.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
