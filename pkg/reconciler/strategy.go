package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/types"
)

// Record metadata keys written from the final info.
const (
	MetaDownloads = "downloads"
	MetaUpdated   = "updated"
	MetaIcon      = "icon"
)

// urlFields are the record fields that map to info URLs.
var urlFields = []types.Field{types.FieldSource, types.FieldModrinth, types.FieldCurseForge}

// Apply reconciles a record with the merged info fetched for it and returns
// the canonical info.
//
// Overridden, Excluded and Verified record fields take precedence over the
// fetched values; an Excluded URL field is cleared. Every fetched value is
// then offered to the record as Verified, which only lands on fields that
// are neither known nor terminal. The info metadata and the final download
// count, update time and icon are merged into the record metadata.
func Apply(rec *projects.Record, fetched *projects.Info) *projects.Info {
	if fetched == nil {
		return nil
	}
	out := fetched.Clone()

	if rec.Name.IsKnown() {
		out.Title = rec.Name.String()
	}
	for _, field := range urlFields {
		switch v := rec.Value(field); {
		case v.IsExcluded():
			out.SetURL(field, nil)
		case v.IsKnown():
			out.SetURL(field, ptr.To(v.String()))
		}
	}

	if fetched.Title != "" {
		rec.Offer(types.FieldName, provenance.Verified(fetched.Title))
	}
	for _, field := range urlFields {
		if url := fetched.URL(field); url != nil && *url != "" {
			rec.Offer(field, provenance.Verified(*url))
		}
	}

	meta := make(map[string]string, len(out.Metadata)+3)
	for k, v := range out.Metadata {
		if v != nil {
			meta[k] = fmt.Sprint(v)
		}
	}
	meta[MetaDownloads] = fmt.Sprint(out.Downloads)
	if out.Updated != nil {
		meta[MetaUpdated] = out.Updated.UTC().Format(time.RFC3339)
	}
	meta[MetaIcon] = out.Icon
	rec.MergeMeta(meta)

	return out
}
