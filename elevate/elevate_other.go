//go:build !windows

package elevate

import "golang.org/x/sys/unix"

func isElevated() bool {
	return unix.Geteuid() == 0
}

func relaunch() error {
	return ErrUnsupported
}
