// Package modrinth resolves project records against the Modrinth API.
// Modrinth needs no credential; slugs double as ids in its lookup endpoint.
package modrinth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/halloffame/internal/transport"
	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/sources"
	"github.com/agentstation/halloffame/pkg/types"
)

// MetaID is the record metadata key holding the Modrinth project id.
const MetaID = "modrinth_id"

// projectType restricts searches and matches to mods.
const projectType = "mod"

// Registry implements sources.Registry for Modrinth.
type Registry struct {
	client   *transport.Client
	baseURL  string
	siteURL  string
	httpOpts []transport.Option
}

// Ensure Registry implements the interface.
var _ sources.Registry = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithBaseURL points the registry at another API root.
func WithBaseURL(url string) Option {
	return func(r *Registry) {
		r.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithTransport passes options through to the HTTP client.
func WithTransport(opts ...transport.Option) Option {
	return func(r *Registry) {
		r.httpOpts = append(r.httpOpts, opts...)
	}
}

// New creates a Modrinth registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		baseURL: constants.ModrinthAPIURL,
		siteURL: constants.ModrinthURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	httpOpts := append([]transport.Option{transport.WithCache(constants.ResponseCacheTTL)}, r.httpOpts...)
	r.client = transport.New(string(types.ModrinthID), httpOpts...)
	return r
}

// ID returns the source identifier.
func (r *Registry) ID() sources.ID { return types.ModrinthID }

// Field returns the record field this registry owns.
func (r *Registry) Field() types.Field { return types.FieldModrinth }

// Tiers returns the supported fallback tiers.
func (r *Registry) Tiers() []sources.Tier {
	return []sources.Tier{sources.TierSlug, sources.TierName, sources.TierSpacedName}
}

// KnownID returns the recorded project id, or the slug of a known Modrinth URL.
func (r *Registry) KnownID(rec *projects.Record) (string, bool) {
	if id, ok := rec.Meta(MetaID); ok && id != "" {
		return id, true
	}
	if rec.Modrinth.IsKnown() && rec.Modrinth.IsPresent() {
		if slug := projects.Slug(rec.Modrinth.String()); slug != "" {
			return slug, true
		}
	}
	return "", false
}

type project struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ProjectType  string `json:"project_type"`
	Downloads    int64  `json:"downloads"`
	IconURL      string `json:"icon_url"`
	Updated      string `json:"updated"`
	DateModified string `json:"date_modified"`
	SourceURL    string `json:"source_url"`
}

type searchResponse struct {
	Hits []project `json:"hits"`
}

func (r *Registry) candidate(p project) sources.Candidate {
	id := p.ID
	if id == "" {
		id = p.ProjectID
	}
	return sources.Candidate{
		ID:          id,
		Name:        p.Title,
		Slug:        p.Slug,
		URL:         r.siteURL + "/mod/" + p.Slug,
		Description: p.Description,
		Downloads:   p.Downloads,
		Updated:     sources.ParseTime(p.Updated, p.DateModified),
		SourceURL:   p.SourceURL,
		IconURL:     p.IconURL,
		Metadata:    map[string]any{MetaID: id, "project_type": p.ProjectType},
	}
}

// Lookup fetches projects by id or slug in one request.
func (r *Registry) Lookup(ctx context.Context, ids []string) (map[string]sources.Candidate, error) {
	if len(ids) == 0 {
		return map[string]sources.Candidate{}, nil
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, errors.WrapParse("json", "ids", err)
	}

	var list []project
	endpoint := transport.URL(r.baseURL, "/projects", map[string]string{"ids": string(encoded)})
	if err := r.client.GetJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	out := make(map[string]sources.Candidate, len(list))
	for _, id := range ids {
		for _, p := range list {
			if p.ID == id || strings.EqualFold(p.Slug, id) {
				out[id] = r.candidate(p)
				break
			}
		}
	}
	return out, nil
}

// Search queries the mod index.
func (r *Registry) Search(ctx context.Context, q sources.Query) ([]sources.Candidate, error) {
	var resp searchResponse
	endpoint := transport.URL(r.baseURL, "/search", map[string]string{
		"query":  q.Text,
		"facets": `[["project_type:` + projectType + `"]]`,
	})
	if err := r.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	out := make([]sources.Candidate, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		out = append(out, r.candidate(hit))
	}
	return out, nil
}

// Accept rejects hits that report a project type other than mod.
func (r *Registry) Accept(c sources.Candidate) bool {
	t, _ := c.Metadata["project_type"].(string)
	return t == "" || t == projectType
}
