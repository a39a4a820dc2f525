// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/halloffame"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Collector creates a collector configured from the application
	// credentials and settings. Extra options are applied last.
	Collector(opts ...halloffame.Option) (halloffame.Collector, error)

	// Paths returns the configured file locations.
	Paths() Paths

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Paths are the files commands read and write by default.
type Paths struct {
	Cache    string
	Store    string
	Search   string
	Projects string
}
