// Package github discovers projects through GitHub code search.
//
// Discovery looks for the stonecutter marker build file, turns every hit into
// an owner/repo project and validates it against the repository policy. It
// is the only source that adds records to the working set or invalidates
// them on structural grounds.
package github

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/halloffame/internal/transport"
	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/logging"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/sources"
	"github.com/agentstation/halloffame/pkg/types"
)

// Marker is the file name stem every participating build declares.
const Marker = "stonecutter"

// Extensions are the build script variants searched for the marker.
var Extensions = []string{"gradle", "kts"}

// Discovery implements sources.Discoverer on top of GitHub code search.
type Discovery struct {
	client     *transport.Client
	baseURL    string
	policy     *Policy
	marker     string
	extensions []string
	pageSize   int
	maxPages   int
	cooldown   time.Duration
	maxRetries int

	httpOpts []transport.Option
}

// Ensure Discovery implements the interface.
var _ sources.Discoverer = (*Discovery)(nil)

// Option configures a Discovery.
type Option func(*Discovery)

// WithBaseURL points the adapter at another API root.
func WithBaseURL(url string) Option {
	return func(d *Discovery) {
		d.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithTransport passes options through to the HTTP client.
func WithTransport(opts ...transport.Option) Option {
	return func(d *Discovery) {
		d.httpOpts = append(d.httpOpts, opts...)
	}
}

// WithCooldown sets the wait after a rate limit response.
func WithCooldown(cooldown time.Duration) Option {
	return func(d *Discovery) {
		if cooldown >= 0 {
			d.cooldown = cooldown
		}
	}
}

// WithMaxRetries bounds the rate limit retries of a single page.
func WithMaxRetries(n int) Option {
	return func(d *Discovery) {
		if n >= 0 {
			d.maxRetries = n
		}
	}
}

// WithPaging sets the page size and the page budget per query.
func WithPaging(pageSize, maxPages int) Option {
	return func(d *Discovery) {
		if pageSize > 0 {
			d.pageSize = pageSize
		}
		if maxPages > 0 {
			d.maxPages = maxPages
		}
	}
}

// New creates a Discovery authenticated with token.
func New(token string, req Requirements, opts ...Option) (*Discovery, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &errors.ConfigError{Component: "github", Message: "token is required for code search", Err: errors.ErrAPIKeyRequired}
	}
	policy, err := req.Compile()
	if err != nil {
		return nil, errors.NewConfigError("github", "invalid repository requirements", err)
	}

	d := &Discovery{
		baseURL:    constants.GitHubAPIURL,
		policy:     policy,
		marker:     Marker,
		extensions: Extensions,
		pageSize:   constants.DefaultPageSize,
		maxPages:   constants.MaxSearchPages,
		cooldown:   constants.RateLimitCooldown,
		maxRetries: constants.MaxRateLimitRetries,
	}
	for _, opt := range opts {
		opt(d)
	}

	httpOpts := append([]transport.Option{
		transport.WithAuth(&transport.BearerAuth{}, token),
		transport.WithHeader("Accept", "application/vnd.github+json"),
		transport.WithHeader("X-GitHub-Api-Version", "2022-11-28"),
	}, d.httpOpts...)
	d.client = transport.New(string(types.GitHubID), httpOpts...)
	return d, nil
}

// ID returns the source identifier.
func (d *Discovery) ID() sources.ID { return types.GitHubID }

// File is one marker file found by code search.
type File struct {
	Project string
	Path    string
	URL     string
}

// ParseFile splits a code search html_url of the form
// https://github.com/<owner>/<repo>/blob/<ref>/<path> into its project and path.
func ParseFile(htmlURL string) (File, bool) {
	head, tail, ok := strings.Cut(htmlURL, "/blob/")
	if !ok {
		return File{}, false
	}
	project, ok := projects.GitHubProject(head)
	if !ok {
		return File{}, false
	}
	_, path, ok := strings.Cut(tail, "/")
	if !ok || path == "" {
		return File{}, false
	}
	return File{Project: project, Path: path, URL: htmlURL}, true
}

type searchResponse struct {
	TotalCount int  `json:"total_count"`
	Incomplete bool `json:"incomplete_results"`
	Items      []struct {
		HTMLURL string `json:"html_url"`
	} `json:"items"`
}

// Discover searches for marker files and applies the results to set.
// A failure other than a rate limit, or a rate limit that outlasts the
// retry budget, aborts discovery.
func (d *Discovery) Discover(ctx context.Context, set *projects.Set) (*sources.DiscoveryReport, error) {
	ctx = logging.WithSource(ctx, string(types.GitHubID))
	logger := logging.FromContext(ctx)
	start := time.Now()

	report := &sources.DiscoveryReport{}
	files, err := d.search(ctx, report)
	if err != nil {
		return report, errors.NewSourceError(string(types.GitHubID), nil, err)
	}
	report.Files = len(files)

	var order []string
	byProject := make(map[string][]File)
	for _, f := range files {
		if _, ok := byProject[f.Project]; !ok {
			order = append(order, f.Project)
		}
		byProject[f.Project] = append(byProject[f.Project], f)
	}
	report.Projects = len(order)

	for _, project := range order {
		rec, ok := set.FindByGitHub(project)
		if !ok {
			rec = projects.NewRecord(project)
			rec.Name = provenance.Guessed(projects.RepoName(project))
			rec.Source = provenance.Verified(constants.GitHubURL + "/" + project)
			if err := set.Add(rec); err != nil {
				return report, err
			}
			rec.Logf("[github] discovered %s", project)
			report.Created = append(report.Created, rec.ID)
		}
		if !d.validate(ctx, rec, project, byProject[project]) {
			report.Invalidated = append(report.Invalidated, rec.ID)
		}
	}
	slices.Sort(report.Invalidated)

	logger.Info().
		Int("files", report.Files).
		Int("projects", report.Projects).
		Int("created", len(report.Created)).
		Int("invalidated", len(report.Invalidated)).
		Dur("duration", time.Since(start)).
		Msg("Discovery complete")

	return report, nil
}

// validate applies the policy to a record and reports whether it stays valid.
// Records that are already invalid or whose source is Excluded are left alone.
func (d *Discovery) validate(ctx context.Context, rec *projects.Record, project string, files []File) bool {
	if !rec.Valid() || rec.Source.IsExcluded() {
		return true
	}

	projectOK := d.policy.AllowProject(project)
	if !projectOK {
		rec.Logf("[github] repository %s is not allowed", project)
	}
	anyFile := false
	for _, f := range files {
		if d.policy.AllowFile(f.Path) {
			anyFile = true
			continue
		}
		rec.Logf("[github] file %s is not allowed", f.Path)
	}

	var reason string
	switch {
	case !projectOK:
		reason = "repository " + project + " is excluded"
	case !anyFile:
		reason = "no allowed " + d.marker + " file"
	default:
		return true
	}
	rec.Invalidate(reason)
	logging.FromContext(logging.WithRecord(ctx, rec.ID)).Info().
		Str("reason", reason).
		Msg("Record invalidated")
	return false
}

// search runs the per-extension queries concurrently and collects their files.
func (d *Discovery) search(ctx context.Context, report *sources.DiscoveryReport) ([]File, error) {
	results := make([][]File, len(d.extensions))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, ext := range d.extensions {
		g.Go(func() error {
			files, pages, limited, err := d.query(gctx, fmt.Sprintf("filename:%s extension:%s", d.marker, ext))
			mu.Lock()
			report.Pages += pages
			report.RateLimited += limited
			mu.Unlock()
			results[i] = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []File
	for _, batch := range results {
		for _, f := range batch {
			if !seen[f.URL] {
				seen[f.URL] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// query pages through one code search query until the reported total is
// covered, a page comes back empty or the page budget is spent.
func (d *Discovery) query(ctx context.Context, q string) (files []File, pages, limited int, err error) {
	logger := logging.FromContext(ctx)
	for page := 1; page <= d.maxPages; page++ {
		resp, retries, err := d.fetchPage(ctx, q, page)
		limited += retries
		if err != nil {
			return files, pages, limited, err
		}
		pages++

		for _, item := range resp.Items {
			f, ok := ParseFile(item.HTMLURL)
			if !ok {
				logger.Debug().Str("url", item.HTMLURL).Msg("Skipping unrecognized search result")
				continue
			}
			files = append(files, f)
		}
		if len(resp.Items) == 0 || page*d.pageSize >= resp.TotalCount {
			break
		}
	}
	return files, pages, limited, nil
}

// fetchPage requests one page, waiting out rate limits up to the retry budget.
func (d *Discovery) fetchPage(ctx context.Context, q string, page int) (*searchResponse, int, error) {
	endpoint := transport.URL(d.baseURL, "/search/code", map[string]string{
		"q":        q,
		"per_page": strconv.Itoa(d.pageSize),
		"page":     strconv.Itoa(page),
	})
	logger := logging.FromContext(ctx)

	for attempt := 0; ; attempt++ {
		var resp searchResponse
		err := d.client.GetJSON(ctx, endpoint, &resp)
		if err == nil {
			return &resp, attempt, nil
		}
		if !errors.IsRateLimited(err) {
			return nil, attempt, err
		}
		if attempt >= d.maxRetries {
			return nil, attempt, fmt.Errorf("page %d still rate limited after %d retries: %w", page, attempt, err)
		}

		logger.Warn().
			Int("page", page).
			Dur("cooldown", d.cooldown).
			Msg("GitHub rate limit exceeded, retrying")
		if err := sleep(ctx, d.cooldown); err != nil {
			return nil, attempt, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
