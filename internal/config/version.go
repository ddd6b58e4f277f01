package config

// Build metadata, overridden at release time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
