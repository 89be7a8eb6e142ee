//go:build !windows

package process

import "syscall"

// detachedProcAttr starts the process in a new session such that it
// survives the watchdog.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true,
	}
}
