// Package version holds build metadata injected with -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/wikimigrate/internal/version.Version=v1.0.0" ./cmd/wikimigrate
package version

import "fmt"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the line printed by --version.
func String() string {
	return fmt.Sprintf("wikimigrate %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
