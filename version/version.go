// Package version holds build-time metadata set via -ldflags.
package version

// Version and Date are overridden at build time, e.g.:
//
//	go build -ldflags "-X github.com/babilon/dedup-domains/version.Version=1.2.3 -X github.com/babilon/dedup-domains/version.Date=2026-07-31"
var (
	Version = "dev"
	Date    = "unknown"
)
