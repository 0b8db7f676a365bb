// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/cmdtray/cmdtray/internal/buildinfo.Version=1.2.0
package buildinfo

var (
	Version    = "dev"
	Codename   = "unreleased"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
