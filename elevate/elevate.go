// Package elevate checks for and requests administrator rights.
package elevate

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned by Relaunch on platforms that can't request
// elevation for a running program.
var ErrUnsupported = errors.New("elevation is not supported on this platform")

// IsElevated returns whether the current process runs with administrator
// rights.
func IsElevated() bool {
	return isElevated()
}

// Relaunch starts the current executable again with the same arguments and
// asks the operating system for administrator rights. The caller is
// expected to exit after a successful relaunch.
func Relaunch() error {
	return relaunch()
}

// joinArgs quotes the arguments for a Windows command line.
func joinArgs(args []string) string {
	quoted := make([]string, 0, len(args))

	for _, arg := range args {
		quoted = append(quoted, quoteArg(arg))
	}

	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if len(arg) != 0 && !strings.ContainsAny(arg, " \t\"") {
		return arg
	}

	var b strings.Builder
	b.WriteByte('"')

	backslashes := 0
	for _, c := range arg {
		switch c {
		case '\\':
			backslashes++
		case '"':
			b.WriteString(strings.Repeat("\\", 2*backslashes+1))
			b.WriteRune(c)
			backslashes = 0
		default:
			b.WriteString(strings.Repeat("\\", backslashes))
			b.WriteRune(c)
			backslashes = 0
		}
	}

	b.WriteString(strings.Repeat("\\", 2*backslashes))
	b.WriteByte('"')

	return b.String()
}
