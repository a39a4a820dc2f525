package reconciler_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/reconciler"
)

func TestMergeOrder(t *testing.T) {
	t1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &projects.Info{
		Title:       "First",
		Description: "first description",
		Icon:        "first.png",
		Downloads:   100,
		Updated:     &t1,
		Modrinth:    ptr.To("https://modrinth.com/mod/x"),
		Metadata:    map[string]any{"shared": "first", "modrinth_id": "abc"},
	}
	second := &projects.Info{
		Title:       "Second",
		Description: "second description",
		Icon:        "second.png",
		Downloads:   23,
		Updated:     &t2,
		Source:      ptr.To("https://github.com/o/x"),
		Modrinth:    ptr.To("https://modrinth.com/mod/other"),
		CurseForge:  ptr.To("https://www.curseforge.com/minecraft/mc-mods/x"),
		Metadata:    map[string]any{"shared": "second", "curseforge_id": "1"},
	}

	want := &projects.Info{
		Title:       "First",
		Description: "first description",
		Icon:        "first.png",
		Downloads:   123,
		Updated:     &t2,
		Source:      ptr.To("https://github.com/o/x"),
		Modrinth:    ptr.To("https://modrinth.com/mod/x"),
		CurseForge:  ptr.To("https://www.curseforge.com/minecraft/mc-mods/x"),
		Metadata:    map[string]any{"shared": "second", "modrinth_id": "abc", "curseforge_id": "1"},
	}
	if diff := cmp.Diff(want, reconciler.Merge(first, second)); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	// Downloads commute, title does not.
	swapped := reconciler.Merge(second, first)
	assert.Equal(t, int64(123), swapped.Downloads)
	assert.Equal(t, "Second", swapped.Title)
}

func TestMergeMissingUpdated(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got := reconciler.Merge(&projects.Info{}, &projects.Info{Updated: &ts})
	require.NotNil(t, got.Updated)
	assert.Equal(t, ts, *got.Updated)

	got = reconciler.Merge(&projects.Info{Updated: &ts}, &projects.Info{})
	require.NotNil(t, got.Updated)
	assert.Equal(t, ts, *got.Updated)

	assert.Nil(t, reconciler.Merge(&projects.Info{}, &projects.Info{}).Updated)
}

func TestMergeAll(t *testing.T) {
	assert.Nil(t, reconciler.MergeAll(nil, nil))

	only := &projects.Info{Title: "Only", Downloads: 7}
	got := reconciler.MergeAll(nil, only)
	assert.Equal(t, only, got)
	assert.NotSame(t, only, got)
}

func TestApply(t *testing.T) {
	fetched := &projects.Info{
		Title:      "Fetched",
		Icon:       "icon.png",
		Downloads:  9,
		Source:     ptr.To("https://github.com/fetched/src"),
		Modrinth:   ptr.To("https://modrinth.com/mod/fetched"),
		CurseForge: ptr.To("https://www.curseforge.com/minecraft/mc-mods/fetched"),
		Metadata:   map[string]any{"modrinth_id": "m1"},
	}

	rec := projects.NewRecord("o/r")
	rec.Name = provenance.Overridden("Declared")
	rec.Source = provenance.Verified("https://github.com/o/r")
	rec.Modrinth = provenance.Excluded()
	rec.CurseForge = provenance.Guessed("https://www.curseforge.com/minecraft/mc-mods/guess")

	out := reconciler.Apply(rec, fetched)

	assert.Equal(t, "Declared", out.Title)
	assert.Equal(t, "https://github.com/o/r", *out.Source)
	assert.Nil(t, out.Modrinth, "excluded field clears the url")
	assert.Equal(t, *fetched.CurseForge, *out.CurseForge)

	assert.Equal(t, provenance.Overridden("Declared"), rec.Name)
	assert.Equal(t, provenance.Verified("https://github.com/o/r"), rec.Source)
	assert.Equal(t, provenance.Excluded(), rec.Modrinth)
	assert.Equal(t, provenance.Verified(*fetched.CurseForge), rec.CurseForge)

	assert.Equal(t, map[string]string{
		"modrinth_id":            "m1",
		reconciler.MetaDownloads: "9",
		reconciler.MetaIcon:      "icon.png",
	}, rec.Metadata())

	assert.Equal(t, "https://modrinth.com/mod/fetched", *fetched.Modrinth, "fetched info is not mutated")
}

func TestApplyTerminalFixedPoints(t *testing.T) {
	terminal := []provenance.Value{provenance.Overridden("mine"), provenance.Excluded()}
	for _, v := range terminal {
		t.Run(v.State().String(), func(t *testing.T) {
			rec := projects.NewRecord("o/r")
			rec.Name = v
			rec.Modrinth = v
			reconciler.Apply(rec, &projects.Info{Title: "Other", Modrinth: ptr.To("https://modrinth.com/mod/other")})
			assert.Equal(t, v, rec.Name)
			assert.Equal(t, v, rec.Modrinth)
		})
	}
}
