package projects

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/halloffame/pkg/types"
)

// Report renders the record and its log as a multi-line human readable block.
func (r *Record) Report() string {
	var b strings.Builder
	status := "valid"
	if !r.Valid() {
		status = "invalid"
	}
	fmt.Fprintf(&b, "%s (%s)\n", r.ID, status)
	for _, field := range types.Fields() {
		v := r.Value(field)
		fmt.Fprintf(&b, "  %-10s %-10s %s\n", field, v.State(), v.String())
	}

	meta := r.Metadata()
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  meta %s = %s\n", k, meta[k])
	}

	for _, line := range r.Entries() {
		fmt.Fprintf(&b, "  | %s\n", line)
	}
	return b.String()
}
