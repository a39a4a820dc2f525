package github

import (
	"slices"
	"strings"

	"github.com/agentstation/halloffame/internal/matcher"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Requirements is the repository policy applied to discovered projects.
type Requirements struct {
	// ExcludedOwners are GitHub users or organizations whose repositories are rejected.
	ExcludedOwners []string `json:"excluded_owners,omitempty" yaml:"excluded_owners,omitempty"`
	// ExcludedNames are repository names, globs or regular expressions,
	// rejected under any owner regardless of case.
	ExcludedNames []string `json:"excluded_names,omitempty" yaml:"excluded_names,omitempty"`
	// ExcludedRepos are full "owner/repo" ids.
	ExcludedRepos []string `json:"excluded_repos,omitempty" yaml:"excluded_repos,omitempty"`
	// RequiredFiles are marker file names, globs or regular expressions; the
	// base name of a discovered file must match one of them. An empty list
	// accepts any file name.
	RequiredFiles []string `json:"required_files,omitempty" yaml:"required_files,omitempty"`
	// DisallowedWords reject repositories whose lowercased name contains one of them.
	DisallowedWords []string `json:"disallowed_words,omitempty" yaml:"disallowed_words,omitempty"`
	// DisallowedPaths are path prefixes, matched at any depth, under which
	// marker files do not count. Nil means the default.
	DisallowedPaths []string `json:"disallowed_paths,omitempty" yaml:"disallowed_paths,omitempty"`
}

// DefaultDisallowedPaths keeps marker files inside source sets from counting.
var DefaultDisallowedPaths = []string{"src/"}

// DefaultRequirements returns the policy used when no configuration is given.
func DefaultRequirements() Requirements {
	return Requirements{
		RequiredFiles:   []string{"stonecutter.gradle", "stonecutter.gradle.kts"},
		DisallowedPaths: slices.Clone(DefaultDisallowedPaths),
	}
}

// Policy is the compiled form of Requirements.
type Policy struct {
	owners map[string]bool
	repos  map[string]bool
	words  []string
	paths  []string
	names  *matcher.MultiMatcher
	files  *matcher.MultiMatcher
}

// Compile validates the requirements and builds a Policy.
func (r Requirements) Compile() (*Policy, error) {
	files, err := matcher.NewMultiMatcher(r.RequiredFiles, matcher.Auto, &matcher.Options{Anchored: true})
	if err != nil {
		return nil, errors.WrapValidation("required_files", err)
	}
	names, err := matcher.NewMultiMatcher(r.ExcludedNames, matcher.Auto, &matcher.Options{Anchored: true, CaseInsensitive: true})
	if err != nil {
		return nil, errors.WrapValidation("excluded_names", err)
	}
	p := &Policy{
		owners: set(r.ExcludedOwners),
		repos:  set(r.ExcludedRepos),
		names:  names,
		files:  files,
		paths:  r.DisallowedPaths,
	}
	if p.paths == nil {
		p.paths = DefaultDisallowedPaths
	}
	for _, w := range r.DisallowedWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			p.words = append(p.words, w)
		}
	}
	return p, nil
}

func set(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// AllowProject reports whether the "owner/repo" project passes the repository rules.
func (p *Policy) AllowProject(project string) bool {
	repo := projects.RepoName(project)
	if p.repos[project] || p.owners[projects.Owner(project)] || p.names.Match(repo) {
		return false
	}
	lower := strings.ToLower(repo)
	for _, w := range p.words {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

// AllowFile reports whether a project-relative file path counts as a marker file.
func (p *Policy) AllowFile(file string) bool {
	for _, prefix := range p.paths {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(file, prefix) || strings.Contains(file, "/"+prefix) {
			return false
		}
	}
	if p.files.Len() == 0 {
		return true
	}
	base := file
	if i := strings.LastIndex(file, "/"); i >= 0 {
		base = file[i+1:]
	}
	return p.files.Match(base)
}
