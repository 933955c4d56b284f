// Package version exposes the build metadata stamped into the drawdrum
// binary, surfaced by the /version endpoint and the build_info metric.
package version

import "runtime"

// Overridden at link time, e.g.
// -ldflags "-X github.com/munchkineatter/DrawDrum/internal/version.Version=v1.2.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build metadata reported to clients.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the linked build metadata plus the running Go version.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}
