/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package client is a deliberately thin HTTP client for SWAPI.  It does
// not interpret responses, every status code results in a snapshot and the
// caller decides what is acceptable.
package client

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unikorn-cloud/swapi-conformance/pkg/constants"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrNetwork is raised when the remote cannot be reached or the
	// response cannot be read.
	ErrNetwork = errors.New("network error")

	// ErrMalformedBody is raised when a field is requested from a response
	// that is not JSON.
	ErrMalformedBody = errors.New("response body is not JSON")

	// ErrConfiguration is raised when the client is misconfigured.
	ErrConfiguration = errors.New("client configuration error")
)

const (
	defaultTimeout = 30 * time.Second
)

// Client issues GET requests relative to a base URI.
type Client struct {
	baseURL      string
	client       *http.Client
	timeout      time.Duration
	logResponses bool
}

// Option configures a client.
type Option func(*Client)

// WithBaseURL sets the URI that relative references are joined to.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client, the timeout option
// is ignored in this case.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogResponses logs response bodies at debug level.
func WithLogResponses(enabled bool) Option {
	return func(c *Client) {
		c.logResponses = enabled
	}
}

// New creates a new client.
func New(options ...Option) (*Client, error) {
	c := &Client{
		baseURL: constants.DefaultBaseURL,
		timeout: defaultTimeout,
	}

	for _, o := range options {
		o(c)
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base URL: %w", ErrConfiguration, err)
	}

	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be absolute", ErrConfiguration, c.baseURL)
	}

	c.baseURL = strings.TrimSuffix(c.baseURL, "/")

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c, nil
}

// BaseURL returns the base URI without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resolve turns a reference into an absolute URL.  Relative references are
// always appended to the base, so "/films/7/" and "films/7/" are the same
// thing.  Scheme relative references inherit the scheme of the base.
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing reference %q: %w", ref, err)
	}

	if u.IsAbs() {
		return ref, nil
	}

	if u.Host != "" {
		base, err := url.Parse(c.baseURL)
		if err != nil {
			return "", fmt.Errorf("%w: parsing base URL %q: %w", ErrConfiguration, c.baseURL, err)
		}

		return base.ResolveReference(u).String(), nil
	}

	return c.baseURL + "/" + strings.TrimPrefix(ref, "/"), nil
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// Get fetches a resource.  An error is only returned if the request could
// not be made or the response could not be read.
func (c *Client) Get(ctx context.Context, ref string) (*Snapshot, error) {
	log := log.FromContext(ctx)

	fullURL, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation="+constants.Application)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.VersionString())

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "method", http.MethodGet, "url", fullURL, "duration", duration, "traceID", traceID)

		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, fullURL, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "method", http.MethodGet, "url", fullURL, "status", resp.StatusCode, "traceID", traceID)

		return nil, fmt.Errorf("%w: reading response body from %s: %w", ErrNetwork, fullURL, err)
	}

	log.V(1).Info("request complete", "method", http.MethodGet, "url", fullURL, "status", resp.StatusCode, "duration", duration, "traceID", traceID)

	if c.logResponses && len(body) > 0 {
		log.V(1).Info("response body", "url", fullURL, "body", string(body))
	}

	snapshot := NewSnapshot(fullURL, resp.StatusCode, body)
	snapshot.duration = duration
	snapshot.traceID = traceID

	return snapshot, nil
}
