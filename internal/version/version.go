// Package version carries build metadata injected with -ldflags.
package version

import "strings"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String formats the build metadata for humans.
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildDate + ")"
}

// EnsureVPrefix adds the leading "v" that golang.org/x/mod/semver requires.
func EnsureVPrefix(v string) string {
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
