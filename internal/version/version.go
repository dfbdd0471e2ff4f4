package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String is the one-line form printed by `apptrack version`.
func String() string {
	return fmt.Sprintf("apptrack %s (commit %s, built %s)", Version, CommitHash, BuildDate)
}

// UserAgent identifies the client to the API server.
func UserAgent() string {
	return "apptrack/" + Version
}
