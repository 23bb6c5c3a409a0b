// Package types provides the core data structures for the SummaBrowse library.
package types

import "runtime"

// Version information for the SummaBrowse library.
const (
	Version = "3.0.0"
	Name    = "SummaBrowse"
)

// BuildInfo contains version and build information for the SummaBrowse library.
// It includes the version number, name, and Go version used to build the library.
type BuildInfo struct {
	Version   string `json:"version"`
	Name      string `json:"name"`
	GoVersion string `json:"goVersion"`
}

// GetBuildInfo returns the current version information for the SummaBrowse library.
// This is useful for displaying version information in logs or help output.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Name:      Name,
		GoVersion: runtime.Version(),
	}
}
