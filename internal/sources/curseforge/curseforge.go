// Package curseforge resolves project records against the CurseForge API.
package curseforge

import (
	"context"
	"strconv"
	"strings"

	"github.com/agentstation/halloffame/internal/transport"
	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/sources"
	"github.com/agentstation/halloffame/pkg/types"
)

// MetaID is the record metadata key holding the numeric CurseForge mod id.
const MetaID = "curseforge_id"

// APIKeyHeader carries the CurseForge API key.
const APIKeyHeader = "x-api-key"

// websiteURL is the fallback project page when the API omits links.
const websiteURL = "https://www.curseforge.com/minecraft/mc-mods/"

// Registry implements sources.Registry for CurseForge.
type Registry struct {
	client   *transport.Client
	baseURL  string
	gameID   int
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

// New creates a CurseForge registry using apiKey.
func New(apiKey string, opts ...Option) (*Registry, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &errors.ConfigError{Component: "curseforge", Message: "API key is required", Err: errors.ErrAPIKeyRequired}
	}
	r := &Registry{
		baseURL: constants.CurseForgeAPIURL,
		gameID:  constants.CurseForgeMinecraftGameID,
	}
	for _, opt := range opts {
		opt(r)
	}
	httpOpts := append([]transport.Option{
		transport.WithAuth(&transport.HeaderAuth{Header: APIKeyHeader}, apiKey),
		transport.WithCache(constants.ResponseCacheTTL),
	}, r.httpOpts...)
	r.client = transport.New(string(types.CurseForgeID), httpOpts...)
	return r, nil
}

// ID returns the source identifier.
func (r *Registry) ID() sources.ID { return types.CurseForgeID }

// Field returns the record field this registry owns.
func (r *Registry) Field() types.Field { return types.FieldCurseForge }

// Tiers returns the supported fallback tiers.
func (r *Registry) Tiers() []sources.Tier {
	return []sources.Tier{sources.TierSlug, sources.TierName, sources.TierSpacedName}
}

// KnownID returns the numeric mod id stored in the record metadata.
func (r *Registry) KnownID(rec *projects.Record) (string, bool) {
	id, ok := rec.Meta(MetaID)
	if !ok {
		return "", false
	}
	if _, err := strconv.Atoi(id); err != nil {
		return "", false
	}
	return id, true
}

type mod struct {
	ID            int     `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Summary       string  `json:"summary"`
	DateModified  string  `json:"dateModified"`
	DownloadCount float64 `json:"downloadCount"`
	Logo          *struct {
		URL string `json:"url"`
	} `json:"logo"`
	Links *struct {
		WebsiteURL string `json:"websiteUrl"`
		SourceURL  string `json:"sourceUrl"`
	} `json:"links"`
}

type modsResponse struct {
	Data []mod `json:"data"`
}

func (m mod) url() string {
	if m.Links != nil && m.Links.WebsiteURL != "" {
		return m.Links.WebsiteURL
	}
	return websiteURL + m.Slug
}

func (m mod) candidate() sources.Candidate {
	c := sources.Candidate{
		ID:          strconv.Itoa(m.ID),
		Name:        m.Name,
		Slug:        m.Slug,
		URL:         m.url(),
		Description: m.Summary,
		Downloads:   int64(m.DownloadCount),
		Updated:     sources.ParseTime(m.DateModified),
		Metadata:    map[string]any{MetaID: strconv.Itoa(m.ID)},
	}
	if m.Logo != nil {
		c.IconURL = m.Logo.URL
	}
	if m.Links != nil {
		c.SourceURL = m.Links.SourceURL
	}
	return c
}

// Lookup fetches mods by numeric id in one request.
func (r *Registry) Lookup(ctx context.Context, ids []string) (map[string]sources.Candidate, error) {
	body := struct {
		ModIDs []int `json:"modIds"`
	}{}
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, errors.NewValidationError(MetaID, id, "must be numeric")
		}
		body.ModIDs = append(body.ModIDs, n)
	}
	if len(body.ModIDs) == 0 {
		return map[string]sources.Candidate{}, nil
	}

	var resp modsResponse
	if err := r.client.PostJSON(ctx, transport.URL(r.baseURL, "/mods", nil), body, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]sources.Candidate, len(resp.Data))
	for _, m := range resp.Data {
		out[strconv.Itoa(m.ID)] = m.candidate()
	}
	return out, nil
}

// Search queries Minecraft mods, using the exact slug filter for the slug tier.
func (r *Registry) Search(ctx context.Context, q sources.Query) ([]sources.Candidate, error) {
	params := map[string]string{
		"gameId":    strconv.Itoa(r.gameID),
		"sortOrder": "desc",
	}
	if q.Tier == sources.TierSlug {
		params["slug"] = q.Text
	} else {
		params["searchFilter"] = q.Text
	}

	var resp modsResponse
	if err := r.client.GetJSON(ctx, transport.URL(r.baseURL, "/mods/search", params), &resp); err != nil {
		return nil, err
	}
	out := make([]sources.Candidate, 0, len(resp.Data))
	for _, m := range resp.Data {
		out = append(out, m.candidate())
	}
	return out, nil
}

// Accept keeps mods and Bukkit plugins, rejecting modpacks, worlds and
// other project classes.
func (r *Registry) Accept(c sources.Candidate) bool {
	return strings.Contains(c.URL, "mc-mods") || strings.Contains(c.URL, "bukkit-plugins")
}
