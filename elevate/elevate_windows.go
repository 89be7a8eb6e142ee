//go:build windows

package elevate

import (
	"os"

	"golang.org/x/sys/windows"
)

func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

func relaunch() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}

	args, err := windows.UTF16PtrFromString(joinArgs(os.Args[1:]))
	if err != nil {
		return err
	}

	dir, err := windows.UTF16PtrFromString(cwd)
	if err != nil {
		return err
	}

	return windows.ShellExecute(0, verb, file, args, dir, windows.SW_NORMAL)
}
