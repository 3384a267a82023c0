// Package version describes the running build of concolic and decides which recorded artifacts it can read back.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver"
)

// The variables below may be overridden with -ldflags "-X". Empty VCS fields are filled in from the build info the
// Go toolchain embeds.
var (
	// Version is the semantic version of the build.
	Version = "0.3.0"
	// GitCommit is the hash of the commit the build was made from.
	GitCommit = ""
	// GitCommitTime is the RFC 3339 timestamp of that commit.
	GitCommitTime = ""
	// GitTreeDirty is "true" if the working tree had uncommitted changes.
	GitTreeDirty = ""
)

// Info describes a build of concolic.
type Info struct {
	// Version describes the semantic version of the build.
	Version string
	// GitCommit describes the full commit hash, if known.
	GitCommit string
	// GitCommitTime describes the commit timestamp, if known.
	GitCommitTime string
	// GitTreeDirty indicates the build included uncommitted changes.
	GitTreeDirty bool
	// GoVersion describes the toolchain the binary was compiled with.
	GoVersion string
}

var (
	current     Info
	currentOnce sync.Once
)

// GetInfo returns the Info of the running build.
func GetInfo() Info {
	currentOnce.Do(func() {
		settings := make(map[string]string)
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, kv := range info.Settings {
				settings[kv.Key] = kv.Value
			}
		}
		current = Info{
			Version:       Version,
			GitCommit:     firstNonEmpty(GitCommit, settings["vcs.revision"]),
			GitCommitTime: firstNonEmpty(GitCommitTime, settings["vcs.time"]),
			GitTreeDirty:  firstNonEmpty(GitTreeDirty, settings["vcs.modified"]) == "true",
			GoVersion:     runtime.Version(),
		}
	})
	return current
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SemVer parses the build version. It fails only if Version was overridden with a malformed value.
func (i Info) SemVer() (*semver.Version, error) {
	return semver.NewVersion(i.Version)
}

// Compatible returns whether an artifact recorded by a runtime of version recorded can be read by this build.
// Builds sharing a major version are compatible, except before 1.0.0 where the minor version must match as well.
func (i Info) Compatible(recorded string) (bool, error) {
	ours, err := i.SemVer()
	if err != nil {
		return false, fmt.Errorf("invalid build version '%s': %w", i.Version, err)
	}
	theirs, err := semver.NewVersion(recorded)
	if err != nil {
		return false, fmt.Errorf("invalid recorded version '%s': %w", recorded, err)
	}
	if ours.Major() != theirs.Major() {
		return false, nil
	}
	return ours.Major() != 0 || ours.Minor() == theirs.Minor(), nil
}

// ShortCommit returns the abbreviated commit hash.
func (i Info) ShortCommit() string {
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// revision returns the abbreviated commit hash, marked if the tree was dirty.
func (i Info) revision() string {
	if i.GitTreeDirty {
		return i.ShortCommit() + "-dirty"
	}
	return i.ShortCommit()
}

// String returns the multi-line description printed by the version command.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "concolic version %s\n", i.Version)
	if i.GitCommit != "" {
		fmt.Fprintf(&sb, "  Commit:     %s\n", i.revision())
	}
	if i.GitCommitTime != "" {
		built := i.GitCommitTime
		if t, err := time.Parse(time.RFC3339, built); err == nil {
			built = t.Format("2006-01-02 15:04:05 MST")
		}
		fmt.Fprintf(&sb, "  Built:      %s\n", built)
	}
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	return sb.String()
}

// Short returns the version with the commit as build metadata, e.g. "0.3.0+1a2b3c4".
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return i.Version + "+" + i.revision()
}
