package sources

import (
	"github.com/agentstation/halloffame/internal/matcher"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/types"
)

// Tier is one step of the unknown-record fallback chain.
type Tier int

// Resolution tiers in the order they are tried.
const (
	// TierSlug searches by the slug of an already present partial URL.
	TierSlug Tier = iota
	// TierName searches by the declared name.
	TierName
	// TierSpacedName searches by the name split into words.
	TierSpacedName
)

// String returns the string representation of a tier.
func (t Tier) String() string {
	switch t {
	case TierSlug:
		return "slug"
	case TierName:
		return "name"
	case TierSpacedName:
		return "spaced-name"
	default:
		return "unknown"
	}
}

// State is the progress of one record through the fallback chain:
// Unresolved -> TrySlug -> TryName -> TrySpacedName -> Resolved | Exhausted.
type State int

// Chain states.
const (
	StateUnresolved State = iota
	StateTrySlug
	StateTryName
	StateTrySpacedName
	StateResolved
	StateExhausted
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateTrySlug:
		return "try-slug"
	case StateTryName:
		return "try-name"
	case StateTrySpacedName:
		return "try-spaced-name"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	default:
		return "invalid"
	}
}

// strategy derives the query of one tier from a record.
type strategy struct {
	tier  Tier
	state State
	query func(rec *projects.Record, field types.Field) string
}

// strategies is the fixed fallback order.
var strategies = []strategy{
	{tier: TierSlug, state: StateTrySlug, query: slugQuery},
	{tier: TierName, state: StateTryName, query: nameQuery},
	{tier: TierSpacedName, state: StateTrySpacedName, query: spacedNameQuery},
}

func slugQuery(rec *projects.Record, field types.Field) string {
	v := rec.Value(field)
	if !v.IsPresent() {
		return ""
	}
	return projects.Slug(v.String())
}

func nameQuery(rec *projects.Record, _ types.Field) string {
	if rec.Name.IsExcluded() {
		return ""
	}
	return rec.Name.String()
}

func spacedNameQuery(rec *projects.Record, field types.Field) string {
	return matcher.SpaceWords(nameQuery(rec, field))
}

// Attempt is the outcome of running the fallback chain for one record.
type Attempt struct {
	State     State
	Tier      Tier
	Query     string
	Queries   []string
	Candidate *Candidate
	Rejected  []string
	Errors    []error
}

// accepts reports whether c is a match for query on reg.
func accepts(reg Registry, query string, c Candidate) bool {
	return (nameMatches(query, c.Slug) || nameMatches(query, c.Name)) && reg.Accept(c)
}

// nameMatches compares two names, never matching a blank one.
func nameMatches(query, candidate string) bool {
	if matcher.Normalize(query) == "" || matcher.Normalize(candidate) == "" {
		return false
	}
	return matcher.IsMatch(query, candidate)
}
