package persistence

import (
	"github.com/agentstation/halloffame/internal/sources/github"
	"github.com/agentstation/halloffame/pkg/projects"
)

// SearchConfig is the user-maintained search configuration file.
type SearchConfig struct {
	// Repositories is the discovery policy.
	Repositories github.Requirements `json:"repositories" yaml:"repositories"`

	// Projects are user overrides. Plain values are Overridden, prefixed
	// values keep their state.
	Projects []projects.Snapshot `json:"projects,omitempty" yaml:"projects,omitempty"`
}

// DefaultSearchConfig returns the configuration used when no file exists.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{Repositories: github.DefaultRequirements()}
}

// LoadSearchConfig reads the search configuration at path. Blocks missing
// from the file keep their defaults.
func LoadSearchConfig(path string) (*SearchConfig, error) {
	cfg := DefaultSearchConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := readFile(path, false, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveSearchConfig writes cfg to path as YAML.
func SaveSearchConfig(path string, cfg *SearchConfig) error {
	return writeFile(path, false, cfg)
}

// Overrides returns the override records of the configuration.
func (c *SearchConfig) Overrides() []*projects.Record {
	return projects.Records(c.Projects)
}
