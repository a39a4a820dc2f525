package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/internal/persistence"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
)

func records() []*projects.Record {
	trims := projects.NewRecord("o/trims")
	trims.Name = provenance.Verified("Elytra Trims")
	trims.Modrinth = provenance.Verified("https://modrinth.com/mod/elytra-trims")
	trims.SetMeta("modrinth_id", "abc")
	trims.Logf("Matched on Modrinth")

	small := projects.NewRecord("o/small")
	small.Name = provenance.Guessed("Small Mod")
	small.Invalidate("no versions")

	return []*projects.Record{trims, small}
}

func newMock(t *testing.T, format string) *appcontext.Mock {
	t.Helper()
	cache := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, persistence.NewFileStore(cache).Save(context.Background(), records()))
	return &appcontext.Mock{
		PathsFunc:        func() appcontext.Paths { return appcontext.Paths{Cache: cache, Store: "yaml"} },
		OutputFormatFunc: func() string { return format },
	}
}

func execute(mock *appcontext.Mock, args ...string) (string, error) {
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode(t *testing.T, out string) []string {
	t.Helper()
	var snapshots []projects.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshots))
	ids := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestReportList(t *testing.T) {
	out, err := execute(newMock(t, "json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"o/trims", "o/small"}, decode(t, out))
}

func TestReportListTable(t *testing.T) {
	out, err := execute(newMock(t, "table"))
	require.NoError(t, err)
	assert.Contains(t, out, "o/trims")
	assert.Contains(t, out, "Elytra Trims")
}

func TestReportFilters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"fuzzy", []string{"--filter", "trims"}, []string{"o/trims"}},
		{"invalid", []string{"--invalid"}, []string{"o/small"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(newMock(t, "json"), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decode(t, out))
		})
	}
}

func TestReportRecord(t *testing.T) {
	out, err := execute(newMock(t, "table"), "o/trims", "o/small")
	require.NoError(t, err)
	assert.Contains(t, out, "o/trims (valid)")
	assert.Contains(t, out, "meta modrinth_id = abc")
	assert.Contains(t, out, "| Matched on Modrinth")
	assert.Contains(t, out, "o/small (invalid)")
	assert.Contains(t, out, "| Invalidated: no versions")
}

func TestReportMissingRecord(t *testing.T) {
	_, err := execute(newMock(t, "table"), "o/none")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFilter(t *testing.T) {
	recs := records()
	assert.Empty(t, Filter(recs, "zzz"))
	got := Filter(recs, "small")
	require.Len(t, got, 1)
	assert.Equal(t, "o/small", got[0].ID)
}
