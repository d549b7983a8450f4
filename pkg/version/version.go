package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version   = "v0.1.0"
	GitCommit string
	BuildTime string
)

func String() string {
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
