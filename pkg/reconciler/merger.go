package reconciler

import (
	"maps"
	"time"

	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/projects"
)

// Merge combines the infos two registries returned for the same record.
// The order matters: first keeps its title, description and icon, URL
// fields take the first non-nil value and second wins metadata collisions.
// Downloads are summed and the earlier update time is kept.
func Merge(first, second *projects.Info) *projects.Info {
	switch {
	case first == nil:
		return second.Clone()
	case second == nil:
		return first.Clone()
	}

	merged := &projects.Info{
		Title:       first.Title,
		Description: first.Description,
		Icon:        first.Icon,
		Downloads:   first.Downloads + second.Downloads,
		Updated:     ptr.Clone(earliest(first, second)),
		Source:      ptr.Clone(ptr.First(first.Source, second.Source)),
		Modrinth:    ptr.Clone(ptr.First(first.Modrinth, second.Modrinth)),
		CurseForge:  ptr.Clone(ptr.First(first.CurseForge, second.CurseForge)),
	}
	if len(first.Metadata)+len(second.Metadata) > 0 {
		merged.Metadata = make(map[string]any, len(first.Metadata)+len(second.Metadata))
		maps.Copy(merged.Metadata, first.Metadata)
		maps.Copy(merged.Metadata, second.Metadata)
	}
	return merged
}

// MergeAll folds infos in order, skipping registries that reported nothing.
func MergeAll(infos ...*projects.Info) *projects.Info {
	var merged *projects.Info
	for _, info := range infos {
		if info == nil {
			continue
		}
		merged = Merge(merged, info)
	}
	return merged
}

func earliest(a, b *projects.Info) *time.Time {
	switch {
	case a.Updated == nil:
		return b.Updated
	case b.Updated == nil:
		return a.Updated
	case b.Updated.Before(*a.Updated):
		return b.Updated
	default:
		return a.Updated
	}
}
