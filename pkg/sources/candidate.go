package sources

import (
	"maps"
	"time"

	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/types"
)

// Candidate is one project description returned by a source.
type Candidate struct {
	ID          string
	Name        string
	Slug        string
	URL         string
	Description string
	Downloads   int64
	Updated     *time.Time
	SourceURL   string
	IconURL     string
	Metadata    map[string]any
}

// Label is the short form used in diagnostics.
func (c Candidate) Label() string {
	if c.URL == "" {
		return c.Name
	}
	return c.Name + " (" + c.URL + ")"
}

// Info converts the candidate into project info for the field a registry owns.
func (c Candidate) Info(field types.Field) *projects.Info {
	info := &projects.Info{
		Title:       c.Name,
		Description: c.Description,
		Icon:        c.IconURL,
		Downloads:   c.Downloads,
		Updated:     ptr.Clone(c.Updated),
		Source:      ptr.NonEmpty(c.SourceURL),
		Metadata:    maps.Clone(c.Metadata),
	}
	if field != types.FieldSource {
		info.SetURL(field, ptr.NonEmpty(c.URL))
	}
	return info
}

// ParseTime parses the first non-empty RFC 3339 timestamp, returning nil
// when none parses.
func ParseTime(values ...string) *time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
