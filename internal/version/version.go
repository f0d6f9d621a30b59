// Package version reports the skinsight build. The variables are overridden
// at link time:
//
//	go build -ldflags "-X skin-sight/internal/version.Version=1.2.0"
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build for -version output and logs.
func String() string {
	return fmt.Sprintf("skinsight %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
