// Package app provides the application context and dependency management
// for the halloffame CLI. It centralizes configuration, logging and the
// construction of collectors.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/halloffame"
	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/pkg/errors"
)

// App represents the halloffame application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Paths returns the configured file locations.
func (a *App) Paths() appcontext.Paths {
	return appcontext.Paths{
		Cache:    a.config.CacheFile,
		Store:    a.config.Store,
		Search:   a.config.SearchFile,
		Projects: a.config.ProjectsFile,
	}
}

// Collector creates a collector from the configured credentials. Extra
// options are applied after the configured ones.
func (a *App) Collector(opts ...halloffame.Option) (halloffame.Collector, error) {
	base := []halloffame.Option{
		halloffame.WithGitHubToken(a.config.GitHubToken),
		halloffame.WithCurseForgeKey(a.config.CurseForgeKey),
		halloffame.WithLogger(a.logger),
	}
	if a.config.Concurrency > 0 {
		base = append(base, halloffame.WithConcurrency(a.config.Concurrency))
	}
	if a.config.RateLimitCooldown > 0 {
		base = append(base, halloffame.WithRateLimitCooldown(a.config.RateLimitCooldown))
	}

	c, err := halloffame.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "collector", "", err)
	}
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
