// Package constants provides shared constants used throughout the amendmap codebase.
// This includes timeouts, limits, and file permissions that should be consistent
// across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to upstream systems
	DefaultHTTPTimeout = 30 * time.Second

	// ProviderFetchTimeout is the per-provider budget in the acquisition fallback chain
	ProviderFetchTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxInflightFetches bounds concurrent page requests inside the live API provider
	MaxInflightFetches = 3

	// UnmatchedSampleSize bounds the unmatched-feature sample kept in merge diagnostics
	UnmatchedSampleSize = 10

	// SnapshotFilename is the name of the last known-good raw record snapshot
	SnapshotFilename = "amendments-snapshot.json"
)
