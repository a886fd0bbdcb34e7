package version

import (
	"fmt"
	"runtime/debug"
)

const (
	unknown       = "unknown"
	shortHashSize = 7
)

// version is set at build time with -ldflags "-X .../version.version=v1.2.3"
var version = ""

// Version returns the build-time version, else the module version recorded
// by the toolchain, else "main".
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "main"
}

// CommitInfo returns the short vcs revision and its timestamp.
func CommitInfo() (commit string, timestamp string) {
	commit, timestamp = unknown, unknown

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, timestamp
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
			if len(commit) > shortHashSize {
				commit = commit[:shortHashSize]
			}
		case "vcs.time":
			timestamp = s.Value
		}
	}

	return commit, timestamp
}

// Info describes the running binary in one line.
func Info() string {
	commit, ts := CommitInfo()

	return fmt.Sprintf("version: %s, commit: %s, timestamp: %s", Version(), commit, ts)
}
