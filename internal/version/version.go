// Package version carries build-time version information for mksite.
package version

import "fmt"

// Version is set via build-time ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/mksite/internal/version.Version=v0.3.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("mksite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
