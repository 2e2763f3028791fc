// Package version reports the build version stamped at link time.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set with -ldflags "-X github.com/techdesk-io/techdesk/internal/shared/version.Version=1.2.3".
var (
	Version = "dev"
	Commit  = "none"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Current returns the normalized build version, or the raw value for
// non-release builds such as "dev".
func Current() string {
	if v := Normalize(Version); semver.IsValid(v) {
		return semver.Canonical(v)
	}
	return Version
}

// IsRelease reports whether the binary was stamped with a semantic version.
func IsRelease() bool {
	return semver.IsValid(Normalize(Version))
}

// String is the human-readable version line.
func String() string {
	return Current() + " (" + Commit + ")"
}
