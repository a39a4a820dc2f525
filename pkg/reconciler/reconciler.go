// Package reconciler turns the working set and the resolutions of every
// source into one canonical info per project.
//
// A run has three steps. Discovery, when configured, completes first since
// it adds and invalidates records. The registries then resolve the same
// working set concurrently. Finally each record's infos are merged in the
// configured registry order and reconciled with the record's own values.
package reconciler

import (
	"context"
	"slices"

	"github.com/agentstation/halloffame/pkg/logging"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/sources"
)

// Reconciler is the main interface for reconciling project records.
type Reconciler interface {
	// Reconcile runs every configured source over set and applies the
	// results. Only a discovery failure aborts the run.
	Reconcile(ctx context.Context, set *projects.Set) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	discovery   sources.Discoverer
	registries  []sources.Registry
	concurrency int
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		discovery:   options.discovery,
		registries:  options.registries,
		concurrency: options.concurrency,
	}, nil
}

// Reconcile performs reconciliation with clean step-by-step flow.
func (r *reconciler) Reconcile(ctx context.Context, set *projects.Set) (*Result, error) {
	result := NewResult()
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx)

	// Step 1: Discovery owns record creation and invalidation
	if r.discovery != nil {
		result.Metadata.Sources = append(result.Metadata.Sources, r.discovery.ID())
		report, err := r.discovery.Discover(ctx, set)
		result.Discovery = report
		if err != nil {
			logger.Error().Err(err).Msg("Discovery failed")
			return nil, err
		}
	}

	// Step 2: Registries observe the same snapshot
	resolutions := r.collect(ctx, set)

	// Step 3: Merge in registry order and apply record precedence
	for _, res := range resolutions {
		result.Metadata.Sources = append(result.Metadata.Sources, res.Source)
		result.Unresolved[res.Source] = slices.Clone(res.Unresolved)
		result.Errors = append(result.Errors, res.Errors...)
	}
	for _, rec := range set.List() {
		if !rec.Valid() {
			continue
		}
		infos := make([]*projects.Info, 0, len(resolutions))
		for _, res := range resolutions {
			infos = append(infos, res.Matches[rec.ID])
		}
		merged := MergeAll(infos...)
		if merged == nil {
			continue
		}
		result.Projects[rec.ID] = Apply(rec, merged)
	}

	result.Records = set.List()
	result.Finalize()

	logger.Info().
		Int("records", result.Metadata.Stats.Records).
		Int("projects", result.Metadata.Stats.Projects).
		Int("invalid", result.Metadata.Stats.Invalid).
		Int("unresolved", result.Metadata.Stats.Unresolved).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}
