package halloffame

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/pkg/errors"
	"github.com/agentstation/halloffame/pkg/logging"
	"github.com/agentstation/halloffame/pkg/projects"
	"github.com/agentstation/halloffame/pkg/provenance"
	"github.com/agentstation/halloffame/pkg/types"
)

// fakeSources serves GitHub, Modrinth and CurseForge under path prefixes.
func fakeSources(t *testing.T, ghFiles []string) (*httptest.Server, *sync.Map) {
	t.Helper()
	var requests sync.Map

	mux := http.NewServeMux()
	mux.HandleFunc("/gh/search/code", func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]string{}
		if strings.HasSuffix(r.URL.Query().Get("q"), "extension:gradle") {
			for _, f := range ghFiles {
				items = append(items, map[string]string{"html_url": f})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"total_count": len(items), "items": items})
	})
	mux.HandleFunc("/mr/projects", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"k1","slug":"known","title":"Known Mod","project_type":"mod","downloads":100}]`)
	})
	mux.HandleFunc("/mr/search", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		requests.Store("modrinth:"+query, true)
		switch query {
		case "ExampleMod":
			_, _ = io.WriteString(w, `{"hits":[{"project_id":"e1","slug":"example-mod","title":"Example Mod","project_type":"mod","downloads":7}]}`)
		case "cool-mod":
			_, _ = io.WriteString(w, `{"hits":[{"project_id":"c1","slug":"cool-mod","title":"Cool Mod","project_type":"mod","downloads":3}]}`)
		default:
			_, _ = io.WriteString(w, `{"hits":[]}`)
		}
	})
	mux.HandleFunc("/cf/mods/search", func(w http.ResponseWriter, r *http.Request) {
		requests.Store("curseforge:"+r.URL.Query().Get("searchFilter"), true)
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func endpoints(srv *httptest.Server) Endpoints {
	return Endpoints{
		GitHub:     srv.URL + "/gh",
		Modrinth:   srv.URL + "/mr",
		CurseForge: srv.URL + "/cf",
	}
}

func TestCollect(t *testing.T) {
	srv, requests := fakeSources(t, []string{
		"https://github.com/cached/known/blob/main/stonecutter.gradle",
		"https://github.com/new/ExampleMod/blob/main/stonecutter.gradle",
		"https://github.com/bad/srconly/blob/main/src/stonecutter.gradle",
	})

	known := projects.NewRecord("cached/known")
	known.Name = provenance.Verified("Known Mod")
	known.Source = provenance.Verified("https://github.com/cached/known")
	known.SetMeta("modrinth_id", "k1")
	known.Logf("old log line")

	override := projects.NewRecord("cached/known")
	override.CurseForge = provenance.Excluded()

	disabled := projects.NewRecord("o/disabled")
	disabled.Invalidate("")

	tl := logging.NewTestLogger(t)
	c, err := New(
		WithGitHubToken("tok"),
		WithCurseForgeKey("key"),
		WithEndpoints(endpoints(srv)),
		WithRateLimitCooldown(0),
		WithOverrides([]*projects.Record{override, disabled}),
		WithLogger(tl.Logger),
	)
	require.NoError(t, err)

	var added, invalidated, collected []string
	c.OnRecordAdded(func(rec *projects.Record) { added = append(added, rec.ID) })
	c.OnRecordInvalidated(func(rec *projects.Record) { invalidated = append(invalidated, rec.ID) })
	c.OnProjectCollected(func(id string, _ *projects.Info) { collected = append(collected, id) })

	result, err := c.Collect(context.Background(), []*projects.Record{known})
	require.NoError(t, err)

	assert.Len(t, result.Projects, 2)
	assert.Contains(t, result.Projects, "cached/known")
	assert.Contains(t, result.Projects, "new/ExampleMod")
	assert.NotContains(t, result.Projects, "bad/srconly")
	assert.NotContains(t, result.Projects, "o/disabled")
	assert.Len(t, result.Records, 4)

	byID := make(map[string]*projects.Record)
	for _, rec := range result.Records {
		byID[rec.ID] = rec
	}
	example := byID["new/ExampleMod"]
	require.NotNil(t, example)
	assert.Equal(t, provenance.Verified("Example Mod"), example.Name)
	assert.Equal(t, provenance.Verified("https://modrinth.com/mod/example-mod"), example.Modrinth)

	cached := byID["cached/known"]
	assert.Equal(t, provenance.Excluded(), cached.CurseForge)
	assert.Equal(t, provenance.Verified("https://modrinth.com/mod/known"), cached.Modrinth)
	assert.NotContains(t, cached.Entries(), "old log line", "runs start with a fresh log")
	assert.NotSame(t, known, cached, "the cache is not modified")
	assert.Equal(t, provenance.Unknown(), known.CurseForge)

	assert.False(t, byID["bad/srconly"].Valid())
	assert.False(t, byID["o/disabled"].Valid())

	assert.ElementsMatch(t, []string{"new/ExampleMod", "bad/srconly"}, added)
	assert.Equal(t, []string{"bad/srconly"}, invalidated)
	assert.ElementsMatch(t, []string{"cached/known", "new/ExampleMod"}, collected)

	_, searchedExcluded := requests.Load("curseforge:Known Mod")
	assert.False(t, searchedExcluded, "excluded fields are never searched")
	assert.Equal(t, []string{"new/ExampleMod"}, result.Unresolved[types.CurseForgeID])
	assert.True(t, tl.Contains("run_id"))
}

func TestCollectWithoutToken(t *testing.T) {
	srv, requests := fakeSources(t, nil)

	c, err := New(WithEndpoints(endpoints(srv)))
	require.NoError(t, err)

	result, err := c.Collect(context.Background(), []*projects.Record{projects.NewRecord("o/cool-mod")})
	require.NoError(t, err)

	require.Contains(t, result.Projects, "o/cool-mod")
	assert.Equal(t, provenance.Verified("Cool Mod"), result.Records[0].Name)
	_, searched := requests.Load("modrinth:cool-mod")
	assert.True(t, searched, "the guessed repository name is searched")
	assert.Nil(t, result.Discovery)
	assert.NotContains(t, result.Unresolved, types.CurseForgeID, "curseforge needs a key")
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative cooldown", WithRateLimitCooldown(-1)},
		{"zero concurrency", WithConcurrency(0)},
		{"override without id", WithOverrides([]*projects.Record{projects.NewRecord("")})},
		{"bad glob", WithRequirements(Requirements{RequiredFiles: []string{"[bad"}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
