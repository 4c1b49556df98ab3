// Package contracts holds the version of the HTTP, websocket and CLI
// contracts. The request, response and event types live in the api/v1,
// domain and events subpackages.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the release of the score calculator
	Version = "1.0.0"

	// APIVersion versions /api and the websocket frames together
	APIVersion = "v1"
)

// GitCommit is set at link time with -ldflags.
var GitCommit = "unknown"

// GetVersionString returns the short product version, e.g. for -version.
func GetVersionString() string {
	return fmt.Sprintf("SIUS Score Calculator v%s", Version)
}

// GetFullVersionString adds the API version, commit and Go runtime.
func GetFullVersionString() string {
	return fmt.Sprintf("%s (api %s, commit %s, %s %s/%s)",
		GetVersionString(), APIVersion, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
