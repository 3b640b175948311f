package buildinfo

import (
	"fmt"
	"runtime"
	"strings"
)

// Set via -ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/xelth-com/eckcheckin/internal/buildinfo.Version=v1.2.0" ./cmd/eckcheckin
var (
	Version    = "dev"
	BuildTime  string // when the binary was compiled
	CommitHash string // short git commit hash
)

// String is the one-line version banner
func String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "eckcheckin %s", Version)
	if CommitHash != "" {
		fmt.Fprintf(&b, " (%s)", CommitHash)
	}
	if BuildTime != "" {
		fmt.Fprintf(&b, " built %s", BuildTime)
	}
	fmt.Fprintf(&b, " %s/%s", runtime.GOOS, runtime.GOARCH)
	return b.String()
}
