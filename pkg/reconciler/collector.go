package reconciler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/sources"
)

// collect resolves every registry concurrently. Each registry writes only
// its own slot, so the resolutions come back in registry order.
func (r *reconciler) collect(ctx context.Context, set *projects.Set) []*sources.Resolution {
	resolutions := make([]*sources.Resolution, len(r.registries))
	if len(r.registries) == 0 {
		return resolutions
	}

	var g errgroup.Group
	g.SetLimit(len(r.registries))
	for i, reg := range r.registries {
		g.Go(func() error {
			resolutions[i] = sources.Resolve(ctx, reg, set, sources.WithConcurrency(r.concurrency))
			return nil
		})
	}
	_ = g.Wait()
	return resolutions
}
