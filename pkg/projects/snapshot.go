package projects

import (
	"maps"

	"github.com/agentstation/halloffame/pkg/provenance"
)

// Snapshot is the serializable form of a Record used by caches and by the
// overrides section of the search configuration. Valid is omitted while the
// record is valid.
type Snapshot struct {
	ID         string            `json:"id" yaml:"id"`
	Valid      *bool             `json:"valid,omitempty" yaml:"valid,omitempty"`
	Name       provenance.Value  `json:"name" yaml:"name"`
	Source     provenance.Value  `json:"source" yaml:"source"`
	Modrinth   provenance.Value  `json:"modrinth" yaml:"modrinth"`
	CurseForge provenance.Value  `json:"curseforge" yaml:"curseforge"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Log        []string          `json:"log,omitempty" yaml:"log,omitempty"`
}

// Snapshot returns the serializable form of the record.
func (r *Record) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		ID:         r.ID,
		Name:       r.Name,
		Source:     r.Source,
		Modrinth:   r.Modrinth,
		CurseForge: r.CurseForge,
		Metadata:   maps.Clone(r.metadata),
		Log:        append([]string(nil), r.log...),
	}
	if r.invalid {
		valid := false
		s.Valid = &valid
	}
	return s
}

// Record rebuilds a record from its snapshot.
func (s Snapshot) Record() *Record {
	r := NewRecord(s.ID)
	r.Name = s.Name
	r.Source = s.Source
	r.Modrinth = s.Modrinth
	r.CurseForge = s.CurseForge
	r.invalid = s.Valid != nil && !*s.Valid
	if s.Metadata != nil {
		r.metadata = maps.Clone(s.Metadata)
	}
	r.log = append([]string(nil), s.Log...)
	return r
}

// Snapshots converts records to their serializable form.
func Snapshots(records []*Record) []Snapshot {
	out := make([]Snapshot, 0, len(records))
	for _, r := range records {
		out = append(out, r.Snapshot())
	}
	return out
}

// Records rebuilds records from snapshots.
func Records(snapshots []Snapshot) []*Record {
	out := make([]*Record, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, s.Record())
	}
	return out
}
