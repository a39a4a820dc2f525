package reconciler_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/reconciler"
	"github.com/agentstation/halloffame/pkg/sources"
	"github.com/agentstation/halloffame/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubRegistry resolves records by their ID through the batch lookup.
type stubRegistry struct {
	id      sources.ID
	field   types.Field
	matches map[string]sources.Candidate
	looked  []string
}

func (s *stubRegistry) ID() sources.ID                              { return s.id }
func (s *stubRegistry) Field() types.Field                          { return s.field }
func (s *stubRegistry) KnownID(rec *projects.Record) (string, bool) { return rec.ID, true }
func (s *stubRegistry) Accept(sources.Candidate) bool               { return true }
func (s *stubRegistry) Tiers() []sources.Tier                       { return nil }
func (s *stubRegistry) Search(context.Context, sources.Query) ([]sources.Candidate, error) {
	return nil, nil
}

func (s *stubRegistry) Lookup(_ context.Context, ids []string) (map[string]sources.Candidate, error) {
	s.looked = append(s.looked, ids...)
	out := make(map[string]sources.Candidate)
	for _, id := range ids {
		if c, ok := s.matches[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// stubDiscovery invalidates the listed records.
type stubDiscovery struct {
	invalidate []string
	err        error
}

func (d *stubDiscovery) ID() sources.ID { return types.GitHubID }

func (d *stubDiscovery) Discover(_ context.Context, set *projects.Set) (*sources.DiscoveryReport, error) {
	if d.err != nil {
		return nil, d.err
	}
	report := &sources.DiscoveryReport{}
	for _, id := range d.invalidate {
		if rec, ok := set.Get(id); ok {
			rec.Invalidate("test policy")
			report.Invalidated = append(report.Invalidated, id)
		}
	}
	return report, nil
}

func modrinth(matches map[string]sources.Candidate) *stubRegistry {
	return &stubRegistry{id: types.ModrinthID, field: types.FieldModrinth, matches: matches}
}

func curseforge(matches map[string]sources.Candidate) *stubRegistry {
	return &stubRegistry{id: types.CurseForgeID, field: types.FieldCurseForge, matches: matches}
}

func TestReconcileGuessedName(t *testing.T) {
	rec := projects.NewRecord("o/r")
	rec.Name = provenance.Guessed("r")
	set := projects.NewSet(rec)

	mr := modrinth(map[string]sources.Candidate{
		"o/r": {Name: "Real Name", URL: "https://modrinth.com/mod/r", Downloads: 42},
	})
	cf := curseforge(nil)

	r, err := reconciler.New(reconciler.WithRegistries(mr, cf))
	require.NoError(t, err)
	result, err := r.Reconcile(context.Background(), set)
	require.NoError(t, err)

	assert.Equal(t, provenance.Verified("https://modrinth.com/mod/r"), rec.Modrinth)
	assert.Equal(t, provenance.Verified("Real Name"), rec.Name)
	assert.Equal(t, provenance.Unknown(), rec.CurseForge)

	info := result.Projects["o/r"]
	require.NotNil(t, info)
	assert.Equal(t, int64(42), info.Downloads)
	assert.Equal(t, []string{"o/r"}, result.Unresolved[types.CurseForgeID])
	assert.Empty(t, result.Unresolved[types.ModrinthID])

	downloads, _ := rec.Meta(reconciler.MetaDownloads)
	assert.Equal(t, "42", downloads)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []sources.ID{types.ModrinthID, types.CurseForgeID}, result.Metadata.Sources)
}

func TestReconcileMergesBothRegistries(t *testing.T) {
	early := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := projects.NewSet(projects.NewRecord("o/both"))

	mr := modrinth(map[string]sources.Candidate{
		"o/both": {Name: "From Modrinth", URL: "https://modrinth.com/mod/both", Downloads: 10, Updated: &late, IconURL: "mr.png"},
	})
	cf := curseforge(map[string]sources.Candidate{
		"o/both": {Name: "From CurseForge", URL: "https://www.curseforge.com/minecraft/mc-mods/both", Downloads: 5, Updated: &early, SourceURL: "https://github.com/o/both"},
	})

	r, err := reconciler.New(reconciler.WithRegistries(mr, cf))
	require.NoError(t, err)
	result, err := r.Reconcile(context.Background(), set)
	require.NoError(t, err)

	want := &projects.Info{
		Title:      "From Modrinth",
		Icon:       "mr.png",
		Downloads:  15,
		Updated:    &early,
		Source:     ptr.To("https://github.com/o/both"),
		Modrinth:   ptr.To("https://modrinth.com/mod/both"),
		CurseForge: ptr.To("https://www.curseforge.com/minecraft/mc-mods/both"),
	}
	if diff := cmp.Diff(want, result.Projects["o/both"]); diff != "" {
		t.Errorf("merged info mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, result.Metadata.Stats.Projects)
}

func TestReconcileInvalidRecordNeverInOutput(t *testing.T) {
	good := projects.NewRecord("o/good")
	bad := projects.NewRecord("o/bad")
	set := projects.NewSet(good, bad)

	mr := modrinth(map[string]sources.Candidate{
		"o/good": {Name: "Good"},
		"o/bad":  {Name: "Bad"},
	})

	r, err := reconciler.New(
		reconciler.WithDiscovery(&stubDiscovery{invalidate: []string{"o/bad"}}),
		reconciler.WithRegistries(mr),
	)
	require.NoError(t, err)
	result, err := r.Reconcile(context.Background(), set)
	require.NoError(t, err)

	assert.Contains(t, result.Projects, "o/good")
	assert.NotContains(t, result.Projects, "o/bad")
	assert.Equal(t, []string{"o/good"}, mr.looked, "invalid records are not searched")
	assert.Len(t, result.Records, 2, "invalid records are still returned for caching")
	assert.Equal(t, 1, result.Metadata.Stats.Invalid)
}

func TestReconcileDiscoveryFailureAborts(t *testing.T) {
	mr := modrinth(nil)
	r, err := reconciler.New(
		reconciler.WithDiscovery(&stubDiscovery{err: errors.ErrSourceUnavailable}),
		reconciler.WithRegistries(mr),
	)
	require.NoError(t, err)

	_, err = r.Reconcile(context.Background(), projects.NewSet(projects.NewRecord("o/a")))
	require.ErrorIs(t, err, errors.ErrSourceUnavailable)
	assert.Empty(t, mr.looked)
}

func TestReconcileNoMatchesKeepsRecord(t *testing.T) {
	rec := projects.NewRecord("o/nothing")
	r, err := reconciler.New(reconciler.WithRegistries(modrinth(nil), curseforge(nil)))
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), projects.NewSet(rec))
	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.Equal(t, []*projects.Record{rec}, result.Records)
	assert.Equal(t, 2, result.Metadata.Stats.Unresolved)
	assert.Contains(t, result.Summary(), "Collected 0 projects from 1 records")
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  reconciler.Option
	}{
		{"nil discovery", reconciler.WithDiscovery(nil)},
		{"nil registry", reconciler.WithRegistries(nil)},
		{"duplicate registry", reconciler.WithRegistries(modrinth(nil), modrinth(nil))},
		{"zero concurrency", reconciler.WithConcurrency(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconciler.New(tt.opt)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}
