// Package version exposes build metadata. Values are set via -ldflags for
// releases and fall back to VCS info from the Go toolchain otherwise:
//
//	go build -ldflags "-X github.com/HerbHall/postreview/internal/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "unknown" && len(s.Value) >= 7 {
				GitCommit = s.Value[:7]
			}
		case "vcs.time":
			if BuildDate == "unknown" {
				BuildDate = s.Value
			}
		}
	}
}

// Short returns the version string alone.
func Short() string {
	return Version
}

// Info returns a one-line human-readable build description.
func Info() string {
	return fmt.Sprintf("postreview %s (commit %s, built %s, %s)", Version, GitCommit, BuildDate, runtime.Version())
}

// Map returns the build metadata as a map for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}
