// Package api is the HTTP client for the Hunter Xpress backend: a single
// configured client with a fixed base endpoint, JSON verb helpers, and a
// transport hook that attaches the stored bearer token to every call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client issues JSON requests against the backend. It is safe for concurrent
// use. The client performs no retries; retry policy belongs to callers.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Response is the normalized result of a 2xx round trip.
type Response struct {
	Status int
	Body   []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client. The auth transport is
// re-wrapped around the replacement's transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a client rooted at baseURL. Every outgoing request passes
// through the auth transport, which reads the token from store at call time.
func NewClient(baseURL string, store ports.CredentialStore, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = newAuthTransport(store, c.http.Transport)
	return c
}

// RequestOption mutates a single outgoing request before transmission.
type RequestOption func(*http.Request)

// WithHeader sets an extra header on one request.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) { req.Header.Set(key, value) }
}

// Get issues a GET against path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST with body marshalled as JSON.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

// Patch issues a PATCH with body marshalled as JSON.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, outcomeNetwork).Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, outcomeNetwork).Inc()
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestsTotal.WithLabelValues(method, outcomeHTTPError).Inc()
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("request rejected")
		return nil, &HTTPError{Status: resp.StatusCode, Message: extractMessage(raw), Body: raw}
	}

	requestsTotal.WithLabelValues(method, outcomeSuccess).Inc()
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
