// Package version holds build metadata injected through -ldflags.
package version

import "fmt"

var (
	GitCommit = "unknown"
	GitTag    = "dev"
)

// String returns the tag and commit the binary was built from.
func String() string {
	return fmt.Sprintf("%s (%s)", GitTag, GitCommit)
}
