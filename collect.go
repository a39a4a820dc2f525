package halloffame

import (
	"context"

	"github.com/agentstation/halloffame/internal/sources/curseforge"
	"github.com/agentstation/halloffame/internal/sources/github"
	"github.com/agentstation/halloffame/internal/sources/modrinth"
	"github.com/agentstation/halloffame/internal/transport"
	"github.com/agentstation/halloffame/pkg/logging"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/reconciler"
	"github.com/agentstation/halloffame/pkg/sources"
	"github.com/agentstation/halloffame/pkg/types"
)

// Collect runs one collection pass.
func (c *collector) Collect(ctx context.Context, cache []*projects.Record) (*reconciler.Result, error) {
	if c.config.logger != nil {
		ctx = logging.WithLogger(ctx, c.config.logger)
	}
	logger := logging.FromContext(ctx)

	// Step 1: Working set from the cache, patched with the overrides
	set, before := c.workingSet(cache)
	c.applyOverrides(set)

	// Step 2: Sources
	opts, err := c.reconcilerOptions()
	if err != nil {
		return nil, err
	}
	if c.config.githubToken == "" {
		logger.Warn().Msg("No GitHub token, skipping discovery")
		guessNames(set)
	}

	// Step 3: Reconcile
	r, err := reconciler.New(opts...)
	if err != nil {
		return nil, err
	}
	result, err := r.Reconcile(ctx, set)
	if err != nil {
		return nil, err
	}

	c.hooks.triggerRun(before, result)
	return result, nil
}

// workingSet clones the cached records so the caller's slice is untouched
// and each record starts the run with an empty log. It also returns the
// validity of every cached record for the hooks.
func (c *collector) workingSet(cache []*projects.Record) (*projects.Set, map[string]bool) {
	set := projects.NewSet()
	before := make(map[string]bool, len(cache)+len(c.config.overrides))
	for _, rec := range cache {
		if rec == nil {
			continue
		}
		if err := set.Add(rec.Clone()); err == nil {
			before[rec.ID] = rec.Valid()
		}
	}
	for _, o := range c.config.overrides {
		if _, ok := before[o.ID]; !ok {
			before[o.ID] = o.Valid()
		}
	}
	return set, before
}

// applyOverrides patches user overrides onto the working set. Overrides
// for unseen ids become records of their own.
func (c *collector) applyOverrides(set *projects.Set) {
	for _, o := range c.config.overrides {
		if rec, ok := set.Get(o.ID); ok {
			rec.Patch(o)
			continue
		}
		_ = set.Add(o.Clone())
	}
}

// guessNames gives every record without a known name its repository name.
func guessNames(set *projects.Set) {
	for _, rec := range set.Valid() {
		rec.Offer(types.FieldName, provenance.Guessed(projects.RepoName(rec.ID)))
	}
}

// reconcilerOptions builds the configured sources in merge order.
func (c *collector) reconcilerOptions() ([]reconciler.Option, error) {
	var httpOpts []transport.Option
	if c.config.httpClient != nil {
		httpOpts = append(httpOpts, transport.WithHTTPClient(c.config.httpClient))
	}
	ep := c.config.endpoints

	opts := []reconciler.Option{reconciler.WithConcurrency(c.config.concurrency)}

	if c.config.githubToken != "" {
		ghOpts := []github.Option{
			github.WithCooldown(c.config.cooldown),
			github.WithTransport(httpOpts...),
		}
		if ep.GitHub != "" {
			ghOpts = append(ghOpts, github.WithBaseURL(ep.GitHub))
		}
		d, err := github.New(c.config.githubToken, c.config.requirements, ghOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reconciler.WithDiscovery(d))
	}

	mrOpts := []modrinth.Option{modrinth.WithTransport(httpOpts...)}
	if ep.Modrinth != "" {
		mrOpts = append(mrOpts, modrinth.WithBaseURL(ep.Modrinth))
	}
	registries := []sources.Registry{modrinth.New(mrOpts...)}

	if c.config.curseforgeKey != "" {
		cfOpts := []curseforge.Option{curseforge.WithTransport(httpOpts...)}
		if ep.CurseForge != "" {
			cfOpts = append(cfOpts, curseforge.WithBaseURL(ep.CurseForge))
		}
		cf, err := curseforge.New(c.config.curseforgeKey, cfOpts...)
		if err != nil {
			return nil, err
		}
		registries = append(registries, cf)
	}

	return append(opts, reconciler.WithRegistries(registries...)), nil
}
