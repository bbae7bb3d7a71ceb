// Package version reports what build of aitag is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit and BuildDate are set at link time, e.g.
// -ldflags "-X github.com/oukeidos/aitag/internal/version.Version=0.2.0".
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info returns a multi-line version string for CLI output. Commit and build time fall back
// to the VCS stamp recorded by the Go toolchain when they were not set at link time.
func Info() string {
	commit, date := Commit, BuildDate
	if bi, ok := readBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown":
				commit = s.Value
			case s.Key == "vcs.time" && date == "unknown":
				date = s.Value
			}
		}
	}
	return fmt.Sprintf("aitag %s\ncommit: %s\nbuild: %s", Version, commit, date)
}
