package halloffame

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/halloffame/internal/sources/github"
	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Requirements is the repository policy applied by discovery.
type Requirements = github.Requirements

// DefaultRequirements returns the policy used when none is configured.
func DefaultRequirements() Requirements {
	return github.DefaultRequirements()
}

// Endpoints holds the API roots of the sources. Empty values keep the defaults.
type Endpoints struct {
	GitHub     string
	Modrinth   string
	CurseForge string
}

// config holds the collector configuration.
type config struct {
	githubToken   string
	curseforgeKey string
	requirements  Requirements
	overrides     []*projects.Record
	httpClient    *http.Client
	cooldown      time.Duration
	concurrency   int
	logger        *zerolog.Logger
	endpoints     Endpoints
}

func defaultConfig() *config {
	return &config{
		requirements: DefaultRequirements(),
		cooldown:     constants.RateLimitCooldown,
		concurrency:  constants.MaxConcurrentRequests,
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("collector", "applying options", err)
		}
	}
	if _, err := cfg.requirements.Compile(); err != nil {
		return nil, errors.NewConfigError("collector", "invalid repository requirements", err)
	}
	return cfg, nil
}

// Option is a function that configures a Collector.
type Option func(*config) error

// WithGitHubToken enables discovery. Without a token, discovery is skipped
// and unnamed records get a name guessed from their id.
func WithGitHubToken(token string) Option {
	return func(c *config) error {
		c.githubToken = token
		return nil
	}
}

// WithCurseForgeKey enables the CurseForge registry.
func WithCurseForgeKey(key string) Option {
	return func(c *config) error {
		c.curseforgeKey = key
		return nil
	}
}

// WithRequirements sets the repository policy of discovery.
func WithRequirements(req Requirements) Option {
	return func(c *config) error {
		c.requirements = req
		return nil
	}
}

// WithOverrides sets the user-declared records patched onto the cache
// before any source runs.
func WithOverrides(overrides []*projects.Record) Option {
	return func(c *config) error {
		for _, o := range overrides {
			if o == nil || o.ID == "" {
				return &errors.ValidationError{Field: "overrides", Message: "records need an id"}
			}
		}
		c.overrides = overrides
		return nil
	}
}

// WithHTTPClient sets the HTTP client shared by all sources.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithRateLimitCooldown sets how long discovery waits after a rate limit.
func WithRateLimitCooldown(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return &errors.ValidationError{Field: "cooldown", Value: d, Message: "cannot be negative"}
		}
		c.cooldown = d
		return nil
	}
}

// WithConcurrency bounds the in-flight requests per registry.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return &errors.ValidationError{Field: "concurrency", Value: n, Message: "must be at least 1"}
		}
		c.concurrency = n
		return nil
	}
}

// WithLogger sets the logger of collection runs, replacing the one carried
// by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithEndpoints overrides the source API roots.
func WithEndpoints(e Endpoints) Option {
	return func(c *config) error {
		c.endpoints = e
		return nil
	}
}
