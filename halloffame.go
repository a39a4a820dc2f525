// Package halloffame collects metadata about projects built with the
// stonecutter Gradle plugin into one canonical record per project.
//
// Projects are discovered through GitHub code search and matched against
// Modrinth and CurseForge. User overrides and the previous run's cache are
// reconciled with the freshly fetched data, so every field remembers
// whether it was guessed, verified against a source or declared by the user.
//
// Example usage:
//
//	c, err := halloffame.New(
//	    halloffame.WithGitHubToken(os.Getenv("GITHUB_TOKEN")),
//	    halloffame.WithCurseForgeKey(os.Getenv("CURSEFORGE_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get notified about new projects
//	c.OnRecordAdded(func(rec *projects.Record) {
//	    log.Printf("New project: %s", rec.ID)
//	})
//
//	result, err := c.Collect(ctx, cache)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for id, info := range result.Projects {
//	    fmt.Printf("%s: %s (%d downloads)\n", id, info.Title, info.Downloads)
//	}
package halloffame

import (
	"context"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/reconciler"
)

// Compile-time interface check to ensure proper implementation.
var _ Collector = (*collector)(nil)

// Collector runs collection passes and notifies registered hooks.
type Collector interface {
	// Collect reconciles the cached records with overrides and fresh source
	// data. The cache is not modified; the result carries updated copies.
	Collect(ctx context.Context, cache []*projects.Record) (*reconciler.Result, error)

	// OnRecordAdded registers a callback for records first seen in a run
	OnRecordAdded(RecordAddedHook)

	// OnRecordInvalidated registers a callback for records invalidated in a run
	OnRecordInvalidated(RecordInvalidatedHook)

	// OnProjectCollected registers a callback for every canonical project
	OnProjectCollected(ProjectCollectedHook)
}

// collector is the internal implementation of the Collector interface.
type collector struct {
	config *config
	hooks  *hooks
}

// New creates a new Collector with the given options.
func New(opts ...Option) (Collector, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &collector{
		config: cfg,
		hooks:  newHooks(),
	}, nil
}

// OnRecordAdded registers a callback for records first seen in a run.
func (c *collector) OnRecordAdded(fn RecordAddedHook) {
	c.hooks.OnRecordAdded(fn)
}

// OnRecordInvalidated registers a callback for records invalidated in a run.
func (c *collector) OnRecordInvalidated(fn RecordInvalidatedHook) {
	c.hooks.OnRecordInvalidated(fn)
}

// OnProjectCollected registers a callback for every canonical project.
func (c *collector) OnProjectCollected(fn ProjectCollectedHook) {
	c.hooks.OnProjectCollected(fn)
}
