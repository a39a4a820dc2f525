package render

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/internal/appcontext"
	"github.com/agentstation/halloffame/internal/persistence"
	"github.com/agentstation/halloffame/internal/utils/ptr"
	"github.com/agentstation/halloffame/pkg/projects"
)

func newMock(t *testing.T) *appcontext.Mock {
	t.Helper()
	file := filepath.Join(t.TempDir(), "projects.json")
	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, persistence.SaveProjects(file, map[string]*projects.Info{
		"o/trims": {
			Title:     "Elytra Trims",
			Downloads: 1500,
			Updated:   &updated,
			Modrinth:  ptr.To("https://modrinth.com/mod/elytra-trims"),
		},
	}))
	return &appcontext.Mock{
		PathsFunc: func() appcontext.Paths { return appcontext.Paths{Projects: file} },
	}
}

func TestRenderStdout(t *testing.T) {
	cmd := NewCommand(newMock(t))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--title", "Showcase", "--icon-size", "0"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "# Showcase")
	assert.Contains(t, out.String(), "(https://modrinth.com/mod/elytra-trims)")
	assert.NotContains(t, out.String(), "<img")
}

func TestRenderFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "docs", "hall-of-fame.md")
	cmd := NewCommand(newMock(t))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--out", dest})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, out.String())
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Hall of Fame")
	assert.Contains(t, string(data), "1,500")
}
