// Package build exposes the version stamped into the binary.
package build

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	_ "embed"
)

//go:embed VERSION
var rawVersion []byte

// Set by the release pipeline via ldflags. Version falls back to the
// VERSION file for local builds.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	StartTime = time.Now()
)

//nolint:gochecknoinits // init version.
func init() {
	if Version == "" {
		Version = strings.TrimSpace(string(rawVersion))
	}
}

// Info is a snapshot of the build and process metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Uptime    string `json:"uptime"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		Platform:  Platform,
		Uptime:    time.Since(StartTime).String(),
	}
}

func (i Info) String() string {
	var sb strings.Builder

	sb.WriteString("Version: " + i.Version + "\n")

	if i.Commit != "" {
		sb.WriteString("Commit: " + i.Commit + "\n")
	}

	if i.BuildTime != "" {
		sb.WriteString("Build Time: " + i.BuildTime + "\n")
	}

	sb.WriteString("Go Version: " + i.GoVersion + "\n")
	sb.WriteString("Platform: " + i.Platform + "\n")
	sb.WriteString("Uptime: " + i.Uptime + "\n")

	return sb.String()
}
