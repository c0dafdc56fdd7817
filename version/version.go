package version

// Set at build time with -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)
