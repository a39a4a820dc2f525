package sources

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/logging"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/types"
)

// Resolution is the outcome of resolving one registry over a working set.
// Resolutions of different registries are disjoint and merged by the
// reconciler afterwards.
type Resolution struct {
	Source ID

	// Matches holds one info per resolved record ID.
	Matches map[string]*projects.Info

	// Unresolved lists the record IDs the registry could not match, sorted.
	Unresolved []string

	// Attempts holds the fallback chain outcome of every searched record.
	Attempts map[string]Attempt

	// Known and Searched count the records taking each path.
	Known    int
	Searched int

	// Errors collects the sub-step failures that were recovered locally.
	Errors []error
}

type resolver struct {
	reg   Registry
	field types.Field
	opts  *ResolveOptions
	tiers []strategy

	mu  sync.Mutex
	res *Resolution
}

// Resolve runs reg over the valid records of set whose field is not
// Excluded. Records with a known source id are fetched in one batch lookup,
// the rest go through the fallback chain of the registry's tiers. Failures
// are recovered locally and never abort the resolution.
func Resolve(ctx context.Context, reg Registry, set *projects.Set, opts ...ResolveOption) *Resolution {
	r := &resolver{
		reg:   reg,
		field: reg.Field(),
		opts:  NewResolveOptions(opts...),
		tiers: supported(reg.Tiers()),
		res: &Resolution{
			Source:   reg.ID(),
			Matches:  make(map[string]*projects.Info),
			Attempts: make(map[string]Attempt),
		},
	}
	ctx = logging.WithSource(ctx, string(reg.ID()))
	logger := logging.FromContext(ctx)

	known := make(map[string][]*projects.Record)
	var unknown []*projects.Record
	for _, rec := range set.Valid() {
		if rec.Value(r.field).IsExcluded() {
			continue
		}
		if id, ok := reg.KnownID(rec); ok {
			known[id] = append(known[id], rec)
			r.res.Known++
			continue
		}
		unknown = append(unknown, rec)
	}
	r.res.Searched = len(unknown)

	logger.Debug().
		Int("known", r.res.Known).
		Int("unknown", r.res.Searched).
		Msg("Resolving records")

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	if len(known) > 0 {
		g.Go(func() error {
			r.lookup(ctx, known)
			return nil
		})
	}
	for _, rec := range unknown {
		g.Go(func() error {
			r.search(ctx, rec)
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(r.res.Unresolved)

	logger.Info().
		Int("matched", len(r.res.Matches)).
		Int("unresolved", len(r.res.Unresolved)).
		Int("errors", len(r.res.Errors)).
		Msg("Resolution complete")

	return r.res
}

// supported filters the fixed strategy order down to the given tiers.
func supported(tiers []Tier) []strategy {
	var out []strategy
	for _, s := range strategies {
		if slices.Contains(tiers, s.tier) {
			out = append(out, s)
		}
	}
	return out
}

// lookup resolves known records with one batch request.
func (r *resolver) lookup(ctx context.Context, known map[string][]*projects.Record) {
	ids := make([]string, 0, len(known))
	for id := range known {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	found, err := r.reg.Lookup(ctx, ids)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Int("ids", len(ids)).
			Msg("Batch lookup failed")
		r.fail(errors.NewSourceError(string(r.reg.ID()), ids, err))
		found = nil
	}

	for _, id := range ids {
		c, ok := found[id]
		for _, rec := range known[id] {
			if !ok {
				rec.Logf("[%s] %s not returned by lookup, 0 candidates", r.reg.ID(), id)
				r.unresolved(rec)
				continue
			}
			rec.Logf("[%s] matched known id %s: %s", r.reg.ID(), id, c.Label())
			r.match(rec, c)
		}
	}
}

// search runs the fallback chain for one unknown record.
func (r *resolver) search(ctx context.Context, rec *projects.Record) {
	ctx = logging.WithRecord(ctx, rec.ID)
	logger := logging.FromContext(ctx)
	attempt := r.chain(ctx, rec)

	r.mu.Lock()
	r.res.Attempts[rec.ID] = attempt
	r.res.Errors = append(r.res.Errors, attempt.Errors...)
	r.mu.Unlock()

	if attempt.State == StateResolved {
		rec.Logf("[%s] matched %q via %s: %s", r.reg.ID(), attempt.Query, attempt.Tier, attempt.Candidate.Label())
		logger.Debug().
			Str("query", attempt.Query).
			Stringer("tier", attempt.Tier).
			Str("candidate", attempt.Candidate.Label()).
			Msg("Record matched")
		r.match(rec, *attempt.Candidate)
		return
	}

	rec.Logf("[%s] no match for %s, %d candidates: %s",
		r.reg.ID(), quoteAll(attempt.Queries), len(attempt.Rejected), strings.Join(attempt.Rejected, ", "))
	logger.Debug().
		Strs("queries", attempt.Queries).
		Int("rejected", len(attempt.Rejected)).
		Msg("Record unresolved")
	r.unresolved(rec)
}

// chain walks the supported tiers until a candidate is accepted.
func (r *resolver) chain(ctx context.Context, rec *projects.Record) Attempt {
	attempt := Attempt{State: StateUnresolved}
	seen := make(map[string]bool)

	for _, s := range r.tiers {
		attempt.State = s.state
		attempt.Tier = s.tier

		query := strings.TrimSpace(s.query(rec, r.field))
		if query == "" || slices.Contains(attempt.Queries, query) {
			continue
		}
		if err := ctx.Err(); err != nil {
			attempt.Errors = append(attempt.Errors, err)
			break
		}
		attempt.Queries = append(attempt.Queries, query)

		candidates, err := r.reg.Search(ctx, Query{Text: query, Tier: s.tier})
		if err != nil {
			rec.Logf("[%s] search %q failed: %v", r.reg.ID(), query, err)
			logging.FromContext(ctx).Warn().Err(err).Str("query", query).Msg("Search failed")
			attempt.Errors = append(attempt.Errors, err)
			continue
		}

		for _, c := range candidates {
			if accepts(r.reg, query, c) {
				attempt.State = StateResolved
				attempt.Query = query
				attempt.Candidate = &c
				return attempt
			}
			label := c.Label()
			if seen[label] || len(attempt.Rejected) >= r.opts.MaxCandidates {
				continue
			}
			seen[label] = true
			attempt.Rejected = append(attempt.Rejected, label)
		}
	}

	attempt.State = StateExhausted
	return attempt
}

func (r *resolver) match(rec *projects.Record, c Candidate) {
	info := c.Info(r.field)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.res.Matches[rec.ID] = info
}

func (r *resolver) unresolved(rec *projects.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.res.Unresolved = append(r.res.Unresolved, rec.ID)
}

func (r *resolver) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.res.Errors = append(r.res.Errors, err)
}

func quoteAll(queries []string) string {
	if len(queries) == 0 {
		return "no queries"
	}
	quoted := make([]string, len(queries))
	for i, q := range queries {
		quoted[i] = `"` + q + `"`
	}
	return strings.Join(quoted, ", ")
}
