package projects

import (
	"fmt"
	"maps"
	"sync"

	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/types"
)

// Record is the canonical per-project aggregate tracked across runs.
//
// The provenance fields are written only by single-writer phases of a run
// (override patching, discovery, merge). Validity, metadata and the log may
// be touched by concurrently running searches and are guarded by the
// record's own lock.
type Record struct {
	// ID is assigned once, from the cache or from discovery, and never changes.
	ID string

	Name       provenance.Value
	Source     provenance.Value
	Modrinth   provenance.Value
	CurseForge provenance.Value

	mu       sync.Mutex
	invalid  bool
	metadata map[string]string
	log      []string
}

// NewRecord creates a valid record with every field Unknown.
func NewRecord(id string) *Record {
	return &Record{
		ID:       id,
		metadata: make(map[string]string),
	}
}

// Valid reports whether the record still takes part in searches and output.
func (r *Record) Valid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.invalid
}

// Invalidate permanently excludes the record. There is no way back.
func (r *Record) Invalidate(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.invalid && reason != "" {
		r.log = append(r.log, "Invalidated: "+reason)
	}
	r.invalid = true
}

// Value returns the provenance value of a field.
func (r *Record) Value(field types.Field) provenance.Value {
	switch field {
	case types.FieldName:
		return r.Name
	case types.FieldSource:
		return r.Source
	case types.FieldModrinth:
		return r.Modrinth
	case types.FieldCurseForge:
		return r.CurseForge
	}
	return provenance.Unknown()
}

// Offer applies v to a field through the provenance precedence rules and
// reports whether the field changed.
func (r *Record) Offer(field types.Field, v provenance.Value) bool {
	target := r.fieldPtr(field)
	if target == nil {
		return false
	}
	next := provenance.Supersede(*target, v)
	if next == *target {
		return false
	}
	*target = next
	return true
}

func (r *Record) fieldPtr(field types.Field) *provenance.Value {
	switch field {
	case types.FieldName:
		return &r.Name
	case types.FieldSource:
		return &r.Source
	case types.FieldModrinth:
		return &r.Modrinth
	case types.FieldCurseForge:
		return &r.CurseForge
	}
	return nil
}

// Meta returns a metadata entry.
func (r *Record) Meta(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.metadata[key]
	return v, ok
}

// SetMeta stores a metadata entry.
func (r *Record) SetMeta(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.metadata == nil {
		r.metadata = make(map[string]string)
	}
	r.metadata[key] = value
}

// MergeMeta merges entries into the metadata. Existing keys are overwritten,
// nothing is deleted.
func (r *Record) MergeMeta(entries map[string]string) {
	if len(entries) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.metadata == nil {
		r.metadata = make(map[string]string, len(entries))
	}
	maps.Copy(r.metadata, entries)
}

// Metadata returns a copy of the metadata.
func (r *Record) Metadata() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.metadata)
}

// Logf appends a diagnostic line to the record log.
func (r *Record) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, line)
}

// Entries returns a copy of the record log.
func (r *Record) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

// Clone returns a copy of the record with an empty log, the starting point
// of a new run.
func (r *Record) Clone() *Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Record{
		ID:         r.ID,
		Name:       r.Name,
		Source:     r.Source,
		Modrinth:   r.Modrinth,
		CurseForge: r.CurseForge,
		invalid:    r.invalid,
		metadata:   maps.Clone(r.metadata),
	}
}

// Patch applies a user override onto the record. An invalid override
// invalidates the record, user-declared or verified override values replace
// the record's, and override metadata is merged in.
func (r *Record) Patch(override *Record) {
	if override == nil {
		return
	}
	if !override.Valid() {
		r.Invalidate("disabled by configuration")
	}
	for _, field := range types.Fields() {
		v := override.Value(field)
		if v.IsKnown() || v.IsExcluded() {
			*r.fieldPtr(field) = v
		}
	}
	r.MergeMeta(override.Metadata())
}
