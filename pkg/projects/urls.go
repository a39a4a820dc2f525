package projects

import (
	"net/url"
	"strings"
)

// GitHubProject extracts "owner/repo" from a GitHub URL.
func GitHubProject(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(strings.TrimPrefix(u.Host, "www."), "github.com") {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"), true
}

// Slug returns the last non-empty path segment of a URL, for example
// "sodium" for https://modrinth.com/mod/sodium.
func Slug(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	parts := strings.Split(strings.Trim(raw, "/"), "/")
	return parts[len(parts)-1]
}

// RepoName returns the repository part of an "owner/repo" id.
func RepoName(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// Owner returns the owner part of an "owner/repo" id.
func Owner(id string) string {
	owner, _, _ := strings.Cut(id, "/")
	return owner
}
