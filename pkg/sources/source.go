// Package sources defines how external sources resolve project records.
//
// Every registry shares the same shape: records whose field already carries
// a source id are fetched in one batch lookup, the rest go through a fuzzy
// search fallback chain, and whatever remains is reported as unresolved.
// Resolve implements that shape once; a Registry only supplies endpoints and
// the source-specific validity rule.
//
// Example usage:
//
//	res := sources.Resolve(ctx, modrinth.New(), set)
//	for id, info := range res.Matches {
//	    fmt.Println(id, info.Title)
//	}
package sources

import (
	"context"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/types"
)

// ID identifies a source.
type ID = types.SourceID

// Query is one free-text search issued by a resolution tier.
type Query struct {
	Text string
	Tier Tier
}

// Registry is a package registry that can be searched for projects.
type Registry interface {
	// ID returns the source identifier.
	ID() ID

	// Field returns the record field this registry owns.
	Field() types.Field

	// KnownID returns the source-specific id already recorded for rec.
	KnownID(rec *projects.Record) (string, bool)

	// Lookup fetches the given ids in one request. The result is keyed by
	// the requested id; missing ids are simply absent.
	Lookup(ctx context.Context, ids []string) (map[string]Candidate, error)

	// Search issues one free-text query.
	Search(ctx context.Context, q Query) ([]Candidate, error)

	// Accept is the source-specific validity rule for a search candidate.
	Accept(c Candidate) bool

	// Tiers returns the fallback tiers the registry supports, in order.
	Tiers() []Tier
}

// Discoverer finds new projects and validates them structurally. It is the
// only stage allowed to add records to the working set or to invalidate
// them on policy grounds.
type Discoverer interface {
	ID() ID
	Discover(ctx context.Context, set *projects.Set) (*DiscoveryReport, error)
}

// DiscoveryReport summarizes a discovery pass.
type DiscoveryReport struct {
	Files       int      `json:"files" yaml:"files"`
	Pages       int      `json:"pages" yaml:"pages"`
	RateLimited int      `json:"rate_limited" yaml:"rate_limited"`
	Projects    int      `json:"projects" yaml:"projects"`
	Created     []string `json:"created,omitempty" yaml:"created,omitempty"`
	Invalidated []string `json:"invalidated,omitempty" yaml:"invalidated,omitempty"`
}
