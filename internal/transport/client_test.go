package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, constants.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"name":"sodium","count":3,"unexpected":{"nested":true}}`)
	}))
	defer srv.Close()

	c := New("github", WithAuth(&BearerAuth{}, "tok"))
	var got payload
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &got))
	assert.Equal(t, payload{Name: "sodium", Count: 3}, got)
	assert.Equal(t, "github", c.Source())
}

func TestGetJSONWithoutCredentialSkipsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := New("github", WithAuth(&BearerAuth{}, ""))
	var got payload
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &got))
}

func TestGetJSONCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, `{"name":"cached"}`)
	}))
	defer srv.Close()

	c := New("modrinth", WithCache(time.Minute))
	for range 3 {
		var got payload
		require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/search?query=x", &got))
		assert.Equal(t, "cached", got.Name)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetJSONErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		message     string
		rateLimited bool
	}{
		{
			name:        "github primary rate limit",
			status:      http.StatusForbidden,
			body:        `{"message":"API rate limit exceeded for 1.2.3.4.","documentation_url":"x"}`,
			message:     "API rate limit exceeded for 1.2.3.4.",
			rateLimited: true,
		},
		{
			name:        "too many requests",
			status:      http.StatusTooManyRequests,
			body:        `slow down`,
			message:     "slow down",
			rateLimited: true,
		},
		{
			name:    "validation failure",
			status:  http.StatusUnprocessableEntity,
			body:    `{"message":"Validation Failed"}`,
			message: "Validation Failed",
		},
		{
			name:    "error field",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_input","description":"bad facets"}`,
			message: "bad facets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := New("github", WithCache(time.Minute))
			var got payload
			err := c.GetJSON(context.Background(), srv.URL, &got)
			require.Error(t, err)

			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, srv.URL, apiErr.Endpoint)
			assert.Equal(t, tt.rateLimited, errors.IsRateLimited(err))
		})
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[not json`)
	}))
	defer srv.Close()

	var got payload
	err := New("curseforge").GetJSON(context.Background(), srv.URL, &got)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGetJSONTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New("modrinth", WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	var got payload
	err := c.GetJSON(context.Background(), srv.URL, &got)
	assert.True(t, errors.IsTimeout(err), "got %v", err)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "key", r.Header.Get("x-api-key"))

		var body map[string][]int
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{1, 2}, body["modIds"])
		_, _ = io.WriteString(w, `{"name":"posted","count":2}`)
	}))
	defer srv.Close()

	c := New("curseforge", WithAuth(&HeaderAuth{Header: "x-api-key"}, "key"), WithUserAgent("test-agent"))
	var got payload
	require.NoError(t, c.PostJSON(context.Background(), srv.URL, map[string][]int{"modIds": {1, 2}}, &got))
	assert.Equal(t, payload{Name: "posted", Count: 2}, got)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "https://api.modrinth.com/v2/search", URL("https://api.modrinth.com/v2/", "/search", nil))
	assert.Equal(t,
		"https://api.curseforge.com/v1/mods/search?gameId=432&slug=jei",
		URL("https://api.curseforge.com/v1", "mods/search", map[string]string{"gameId": "432", "slug": "jei", "searchFilter": ""}),
	)
}

func TestWithHeaderOverridesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := New("github",
		WithHeader("Accept", "application/vnd.github+json"),
		WithHeader("X-GitHub-Api-Version", "2022-11-28"),
	)
	var got payload
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &got))
}
