package version

import (
	"runtime/debug"
	"strings"
)

var (
	Version = "0.1.0"
	Commit  = ""
)

// Resolve returns Version, suffixed with the short VCS revision when the
// binary carries one (from -ldflags or the Go build info) and "-dirty" when
// it was built from a modified tree.
func Resolve() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(Version, Commit, info)
}

func resolveVersion(base, commit string, info *debug.BuildInfo) string {
	if base == "" {
		base = "0.0.0"
	}

	revision := strings.TrimSpace(commit)
	dirty := false
	if info != nil {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if revision == "" {
					revision = setting.Value
				}
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
	}

	if revision == "" {
		return base
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}

	suffix := revision
	if dirty {
		suffix += "-dirty"
	}
	return base + "+" + suffix
}
