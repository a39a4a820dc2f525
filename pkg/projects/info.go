package projects

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/types"
)

// Info is the normalized description of a project as reported by one source.
// It is also the unit of the canonical output set.
type Info struct {
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Icon        string         `json:"icon" yaml:"icon"`
	Downloads   int64          `json:"downloads" yaml:"downloads"`
	Updated     *time.Time     `json:"updated,omitempty" yaml:"updated,omitempty"`
	Source      *string        `json:"source,omitempty" yaml:"source,omitempty"`
	Modrinth    *string        `json:"modrinth,omitempty" yaml:"modrinth,omitempty"`
	CurseForge  *string        `json:"curseforge,omitempty" yaml:"curseforge,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// URL returns the URL the info carries for a field, or nil.
func (i *Info) URL(field types.Field) *string {
	switch field {
	case types.FieldSource:
		return i.Source
	case types.FieldModrinth:
		return i.Modrinth
	case types.FieldCurseForge:
		return i.CurseForge
	}
	return nil
}

// SetURL sets the URL of a field. Setting FieldName is a no-op.
func (i *Info) SetURL(field types.Field, url *string) {
	switch field {
	case types.FieldSource:
		i.Source = url
	case types.FieldModrinth:
		i.Modrinth = url
	case types.FieldCurseForge:
		i.CurseForge = url
	}
}

// Clone returns a deep copy of the info.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	c := *i
	c.Updated = ptr.Clone(i.Updated)
	c.Source = ptr.Clone(i.Source)
	c.Modrinth = ptr.Clone(i.Modrinth)
	c.CurseForge = ptr.Clone(i.CurseForge)
	c.Metadata = maps.Clone(i.Metadata)
	return &c
}

// Ranked is a canonical project with its record id.
type Ranked struct {
	ID   string `json:"id" yaml:"id"`
	Info *Info  `json:"info" yaml:"info"`
}

// Rank orders a canonical project set by downloads, most downloaded first.
// Ties are broken by id.
func Rank(set map[string]*Info) []Ranked {
	out := make([]Ranked, 0, len(set))
	for id, info := range set {
		if info != nil {
			out = append(out, Ranked{ID: id, Info: info})
		}
	}
	slices.SortFunc(out, func(a, b Ranked) int {
		if c := cmp.Compare(b.Info.Downloads, a.Info.Downloads); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
