// Package transport is the shared HTTP client used by every source.
// A Client is configured once and then only read, so concurrent searches
// can share it freely.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	source    string
	http      *http.Client
	auth      Authenticator
	apiKey    string
	userAgent string
	headers   http.Header
	cache     *gocache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuth sets the authenticator and its credential. Requests are sent
// unauthenticated while the credential is empty.
func WithAuth(auth Authenticator, apiKey string) Option {
	return func(c *Client) {
		c.auth = auth
		c.apiKey = apiKey
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeader adds a header to every request, replacing the default of the
// same name.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(http.Header)
		}
		c.headers.Set(key, value)
	}
}

// WithCache reuses successful GET response bodies for ttl.
func WithCache(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cache = gocache.New(ttl, constants.ResponseCacheCleanup)
		}
	}
}

// New creates a new transport client for the named source.
func New(source string, opts ...Option) *Client {
	c := &Client{
		source:    source,
		http:      &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:      &NoAuth{},
		userAgent: constants.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the name of the source this client talks to.
func (c *Client) Source() string {
	return c.source
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.wrapTransport(ctx, req.URL.String(), err)
	}
	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, endpoint string, target any) error {
	if c.cache != nil {
		if body, ok := c.cache.Get(endpoint); ok {
			return decodeBody(body.([]byte), target)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.WrapResource("create", "request", "GET "+endpoint, err)
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	body, err := c.read(resp, endpoint)
	if err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.SetDefault(endpoint, body)
	}
	return decodeBody(body, target)
}

// PostJSON encodes payload as JSON, posts it and decodes the response into target.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload, target any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapParse("json", "request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return errors.WrapResource("create", "request", "POST "+endpoint, err)
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	body, err := c.read(resp, endpoint)
	if err != nil {
		return err
	}
	return decodeBody(body, target)
}

func (c *Client) wrapTransport(ctx context.Context, endpoint string, err error) error {
	if stderrors.Is(ctx.Err(), context.Canceled) {
		return stderrors.Join(errors.ErrCanceled, err)
	}
	var urlErr *url.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &urlErr) && urlErr.Timeout()) {
		return errors.NewTimeoutError("request "+endpoint, c.http.Timeout.String(), err.Error())
	}
	return &errors.APIError{
		Source:   c.source,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}

// read drains the response, turning non-success statuses into APIErrors.
func (c *Client) read(resp *http.Response, endpoint string) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.APIError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Endpoint:   endpoint,
		}
	}
	return body, nil
}
