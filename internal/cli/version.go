package cli

import (
	"fmt"
	"runtime"

	"github.com/hupe1980/seahash"
)

var (
	// Commit is the source control revision, injected at build time.
	Commit string
	// Date is the build timestamp, injected at build time.
	Date string
)

// BuildInfo contains normalized build metadata.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
	Go      string
	OS      string
	Arch    string
}

// GetBuildInfo returns build metadata with defaults when build flags are not
// provided.
func GetBuildInfo() BuildInfo {
	commit := Commit
	if commit == "" {
		commit = "unknown"
	}
	date := Date
	if date == "" {
		date = "unknown"
	}
	return BuildInfo{
		Version: seahash.Version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String formats build metadata for --version output.
func (i BuildInfo) String() string {
	return fmt.Sprintf("seasum %s\ncommit: %s\nbuilt:  %s\ngo:     %s\nos/arch:%s/%s", i.Version, i.Commit, i.Date, i.Go, i.OS, i.Arch)
}
