package summabrowse

import (
	"github.com/mrjoshuak/summabrowse/types"
)

// Result is the extracted main content of a page.
type Result = types.Result

// PageStatistics summarizes a page: title, size, reading time and the
// extraction strategy that produced its content.
type PageStatistics = types.PageStatistics

// SelectionResult is the text and markup of a selected part of a page.
type SelectionResult = types.SelectionResult

// ExtractionOptions configures the extraction process.
type ExtractionOptions = types.ExtractionOptions

// DefaultOptions returns the default extraction options.
// By default raw markup is returned, documents are limited to 5MB and the
// timeout is 30 seconds.
func DefaultOptions() ExtractionOptions {
	return types.DefaultOptions()
}

// BuildInfo contains version and build information for the SummaBrowse library.
type BuildInfo = types.BuildInfo

// GetBuildInfo returns the current version information for the SummaBrowse library.
func GetBuildInfo() BuildInfo {
	return types.GetBuildInfo()
}

// Version is the current version of the SummaBrowse library.
var Version = types.Version

// Name is the name of the SummaBrowse library.
var Name = types.Name
