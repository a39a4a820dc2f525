package transport

import (
	"net/http"
	"testing"
)

func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "test-api-key")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "ghp_token")

	if got := req.Header.Get("Authorization"); got != "Bearer ghp_token" {
		t.Errorf("Expected Authorization header 'Bearer ghp_token', got '%s'", got)
	}
}

func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "x-api-key"}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "cf-key")

	if got := req.Header.Get("x-api-key"); got != "cf-key" {
		t.Errorf("Expected x-api-key header 'cf-key', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}
