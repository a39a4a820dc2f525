package transport

import (
	"net/http"
)

// Authenticator applies a credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth sends requests without credentials.
type NoAuth struct{}

// Apply implements Authenticator.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth sends the credential as an Authorization bearer token.
type BearerAuth struct{}

// Apply implements Authenticator.
func (a *BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth sends the credential verbatim in a custom header.
type HeaderAuth struct {
	Header string
}

// Apply implements Authenticator.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.Header, apiKey)
}
