package match

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/internal/appcontext"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		distance int
		match    bool
	}{
		{"Elytra Trims", "elytra-trims", 0, true},
		{"Elytra Trims", "Elytra Trim", 1, true},
		{"Elytra Trims", "Armor Trims", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			c := Compare(tt.a, tt.b)
			assert.Equal(t, tt.distance, c.Distance)
			assert.Equal(t, tt.match, c.Match)
		})
	}
}

func TestMatchCommand(t *testing.T) {
	mock := &appcontext.Mock{OutputFormatFunc: func() string { return "json" }}
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"Elytra Trims", "elytra_trims"})
	require.NoError(t, cmd.Execute())

	var c Comparison
	require.NoError(t, json.Unmarshal(out.Bytes(), &c))
	assert.Equal(t, "elytratrims", c.NormalA)
	assert.Equal(t, "elytratrims", c.NormalB)
	assert.InDelta(t, 1.0, c.Similarity, 1e-9)
	assert.True(t, c.Match)
}

func TestMatchCommandArgs(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"only-one"})
	assert.Error(t, cmd.Execute())
}
