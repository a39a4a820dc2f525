// Package constants provides shared constants used throughout the halloffame codebase.
// This includes timeouts, limits, file permissions, and source endpoints that
// should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to sources
	DefaultHTTPTimeout = 30 * time.Second

	// RateLimitCooldown is how long Discovery waits after a rate limit response
	RateLimitCooldown = 1 * time.Minute

	// ResponseCacheTTL is how long identical GET responses are reused within a run
	ResponseCacheTTL = 10 * time.Minute

	// ResponseCacheCleanup is how often expired cached responses are evicted
	ResponseCacheCleanup = 5 * time.Minute
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
	// MaxRateLimitRetries bounds how often one page is retried after a rate limit
	MaxRateLimitRetries = 5

	// MaxConcurrentRequests is the maximum number of concurrent requests per source
	MaxConcurrentRequests = 10

	// DefaultPageSize is the number of results requested per code search page
	DefaultPageSize = 100

	// MaxSearchPages is the code search page budget (1000 results)
	MaxSearchPages = 10

	// MaxReportedCandidates caps the rejected candidates kept per record
	MaxReportedCandidates = 20
)

// Source endpoints
const (
	// GitHubAPIURL is the GitHub REST API base URL
	GitHubAPIURL = "https://api.github.com"

	// GitHubURL is the GitHub web base URL
	GitHubURL = "https://github.com"

	// ModrinthAPIURL is the Modrinth v2 API base URL
	ModrinthAPIURL = "https://api.modrinth.com/v2"

	// ModrinthURL is the Modrinth web base URL
	ModrinthURL = "https://modrinth.com"

	// CurseForgeAPIURL is the CurseForge v1 API base URL
	CurseForgeAPIURL = "https://api.curseforge.com/v1"

	// CurseForgeMinecraftGameID is the CurseForge game id of Minecraft
	CurseForgeMinecraftGameID = 432
)

// Default file names
const (
	// DefaultCacheFile is where collected records are cached between runs
	DefaultCacheFile = "cache.yaml"

	// DefaultSearchConfigFile holds repository requirements and overrides
	DefaultSearchConfigFile = "halloffame.yaml"

	// DefaultProjectsFile is where the canonical project set is written
	DefaultProjectsFile = "projects.json"

	// UserAgent identifies this tool to source APIs
	UserAgent = "agentstation/halloffame"
)
