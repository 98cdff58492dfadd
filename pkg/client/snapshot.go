/*
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

package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/unikorn-cloud/swapi-conformance/pkg/extract"
)

// Snapshot is an immutable capture of a single HTTP response.
type Snapshot struct {
	url        string
	statusCode int
	body       string
	duration   time.Duration
	traceID    string

	// document is the decoded body, or nil if decodeErr is set.
	document  any
	decodeErr error
}

// NewSnapshot creates a snapshot from its constituent parts.  The body is
// decoded eagerly, if it's not valid JSON then the error is deferred until
// something tries to look at a field.
func NewSnapshot(url string, statusCode int, body []byte) *Snapshot {
	s := &Snapshot{
		url:        url,
		statusCode: statusCode,
		body:       string(body),
	}

	if err := json.Unmarshal(body, &s.document); err != nil {
		s.decodeErr = err
		s.document = nil
	}

	return s
}

// URL is the absolute URL the snapshot was fetched from.
func (s *Snapshot) URL() string {
	return s.url
}

// StatusCode is the HTTP status code.
func (s *Snapshot) StatusCode() int {
	return s.statusCode
}

// Body is the raw response body.
func (s *Snapshot) Body() string {
	return s.body
}

// Duration is how long the request took, zero for synthetic snapshots.
func (s *Snapshot) Duration() time.Duration {
	return s.duration
}

// TraceID is the W3C trace ID the request was sent with.
func (s *Snapshot) TraceID() string {
	return s.traceID
}

// Document returns the decoded JSON body.
func (s *Snapshot) Document() (any, error) {
	if s.decodeErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedBody, s.url, s.decodeErr)
	}

	return s.document, nil
}

// Field extracts a value from the body by path, see the extract package
// for the path grammar.
func (s *Snapshot) Field(path string) (extract.Value, error) {
	document, err := s.Document()
	if err != nil {
		return extract.Value{}, err
	}

	return extract.Field(document, path)
}

// Decode unmarshals the body into the provided record.
func (s *Snapshot) Decode(out any) error {
	if s.decodeErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedBody, s.url, s.decodeErr)
	}

	if err := json.Unmarshal([]byte(s.body), out); err != nil {
		return fmt.Errorf("decoding %s: %w", s.url, err)
	}

	return nil
}
