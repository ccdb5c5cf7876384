package version

import (
	"runtime/debug"
	"sync"
)

// Version is the current semantic version of csx
const Version = "0.1.0"

// Set via -ldflags "-X github.com/standardbeagle/csx/internal/version.GitCommit=..."
var (
	GitCommit = "unknown"
	BuildDate = "development"
)

// Build describes the running binary
type Build struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

var (
	build     Build
	buildOnce sync.Once
)

// Current returns build information, preferring VCS stamps embedded by the
// Go toolchain over the ldflags defaults.
func Current() Build {
	buildOnce.Do(func() {
		build = Build{Version: Version, Commit: GitCommit, BuildDate: BuildDate}

		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		build.GoVersion = info.GoVersion
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if build.Commit == "unknown" && len(s.Value) >= 12 {
					build.Commit = s.Value[:12]
				}
			case "vcs.time":
				if build.BuildDate == "development" {
					build.BuildDate = s.Value
				}
			case "vcs.modified":
				build.Modified = s.Value == "true"
			}
		}
	})
	return build
}

// FullInfo returns a one-line version string
func FullInfo() string {
	b := Current()
	s := "csx " + b.Version + " (commit: " + b.Commit + ", built: " + b.BuildDate + ")"
	if b.Modified {
		s += " +dirty"
	}
	return s
}
