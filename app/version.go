// Package app holds the name and the build information of the app.
package app

import (
	"fmt"
	"runtime"
)

// Name of the app
const Name = "dragonwatch"

type versionInfo struct {
	Major int
	Minor int
	Patch int
}

func (v versionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Version of the app
var Version = versionInfo{
	Major: 1,
	Minor: 0,
	Patch: 0,
}

// Commit, Branch and Build are set with -ldflags "-X ..." when building a release.
var (
	Commit = ""
	Branch = ""
	Build  = "" // RFC3339
)

// Arch is the OS and CPU architecture this app is build for.
var Arch = runtime.GOOS + "/" + runtime.GOARCH

// Compiler is the golang version this app has been build with.
var Compiler = runtime.Version()

// Info returns the name, version and platform of the app in one line.
func Info() string {
	return fmt.Sprintf("%s %s (%s, %s)", Name, Version.String(), Arch, Compiler)
}

// Fields returns the build information as key/value pairs. The repository
// fields are only present if they have been set during the build.
func Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"application": Name,
		"version":     Version.String(),
		"arch":        Arch,
		"compiler":    Compiler,
	}

	if len(Commit) != 0 {
		fields["commit"] = Commit
	}

	if len(Branch) != 0 {
		fields["branch"] = Branch
	}

	if len(Build) != 0 {
		fields["build"] = Build
	}

	return fields
}
