package projects_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/types"
)

func TestNewRecordIsValid(t *testing.T) {
	r := projects.NewRecord("o/r")
	assert.True(t, r.Valid())
	assert.Equal(t, provenance.Unknown(), r.Name)
	assert.Empty(t, r.Entries())
}

func TestInvalidateIsPermanent(t *testing.T) {
	r := projects.NewRecord("o/r")
	r.Invalidate("no marker file")
	r.Invalidate("second reason")
	assert.False(t, r.Valid())
	assert.Equal(t, []string{"Invalidated: no marker file"}, r.Entries())

	r.Patch(projects.NewRecord("o/r"))
	assert.False(t, r.Valid(), "a valid override must not revive an invalid record")
}

func TestOffer(t *testing.T) {
	r := projects.NewRecord("o/r")
	r.Name = provenance.Guessed("r")

	assert.True(t, r.Offer(types.FieldName, provenance.Verified("Real Name")))
	assert.Equal(t, provenance.Verified("Real Name"), r.Name)

	assert.False(t, r.Offer(types.FieldName, provenance.Verified("Other")))
	assert.Equal(t, provenance.Verified("Real Name"), r.Name)

	r.Modrinth = provenance.Excluded()
	assert.False(t, r.Offer(types.FieldModrinth, provenance.Verified("https://modrinth.com/mod/r")))
	assert.Equal(t, provenance.Excluded(), r.Modrinth)
}

func TestPatch(t *testing.T) {
	r := projects.NewRecord("o/r")
	r.Name = provenance.Verified("Fetched")
	r.Source = provenance.Verified("https://github.com/o/r")
	r.SetMeta("curseforge_id", "1")

	override := projects.NewRecord("o/r")
	override.Name = provenance.Overridden("Declared")
	override.Source = provenance.Guessed("ignored")
	override.CurseForge = provenance.Excluded()
	override.SetMeta("modrinth_id", "abc")

	r.Patch(override)

	assert.Equal(t, provenance.Overridden("Declared"), r.Name)
	assert.Equal(t, provenance.Verified("https://github.com/o/r"), r.Source)
	assert.Equal(t, provenance.Excluded(), r.CurseForge)
	assert.Equal(t, map[string]string{"curseforge_id": "1", "modrinth_id": "abc"}, r.Metadata())
	assert.True(t, r.Valid())

	disabled := projects.NewRecord("o/r")
	disabled.Invalidate("")
	r.Patch(disabled)
	assert.False(t, r.Valid())
}

func TestCloneStartsFreshLog(t *testing.T) {
	r := projects.NewRecord("o/r")
	r.Name = provenance.Guessed("r")
	r.SetMeta("k", "v")
	r.Logf("old run")

	c := r.Clone()
	assert.Equal(t, r.Name, c.Name)
	assert.Equal(t, r.Metadata(), c.Metadata())
	assert.Empty(t, c.Entries())

	c.SetMeta("k", "changed")
	v, _ := r.Meta("k")
	assert.Equal(t, "v", v)
}

func TestConcurrentLogAndMetadata(t *testing.T) {
	r := projects.NewRecord("o/r")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Logf("tier %d", i)
			r.SetMeta(fmt.Sprintf("k%d", i), "v")
			r.MergeMeta(map[string]string{"shared": "x"})
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Entries(), 50)
	assert.Len(t, r.Metadata(), 51)
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := projects.NewRecord("o/r")
	r.Name = provenance.Verified("Name")
	r.CurseForge = provenance.Excluded()
	r.SetMeta("curseforge_id", "42")
	r.Logf("matched")

	s := r.Snapshot()
	assert.Nil(t, s.Valid)

	back := s.Record()
	assert.Equal(t, r.Snapshot(), back.Snapshot())

	r.Invalidate("x")
	s = r.Snapshot()
	require.NotNil(t, s.Valid)
	assert.False(t, *s.Valid)
	assert.False(t, s.Record().Valid())
}

func TestReport(t *testing.T) {
	r := projects.NewRecord("o/r")
	r.Name = provenance.Guessed("r")
	r.SetMeta("downloads", "10")
	r.Logf("Hits: none")

	out := r.Report()
	assert.Contains(t, out, "o/r (valid)")
	assert.Contains(t, out, "guessed")
	assert.Contains(t, out, "meta downloads = 10")
	assert.Contains(t, out, "| Hits: none")
}
