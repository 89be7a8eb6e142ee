//go:build windows

package process

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachedProcAttr starts the process in its own process group without
// a console such that it survives the watchdog.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}
