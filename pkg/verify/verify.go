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

// Package verify provides reusable assertions over response snapshots.
// Assertions return errors rather than failing directly so they can be
// used from both the CLI runner and test suites alike.
package verify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/unikorn-cloud/swapi-conformance/pkg/client"
	"github.com/unikorn-cloud/swapi-conformance/pkg/extract"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"
)

// Formats understood by AssertFieldFormat.
const (
	FormatDate = "date"
)

// dateLayout is the layout SWAPI uses for release dates.
const dateLayout = "2006-01-02"

// AssertStatus checks the response status code.
func AssertStatus(s *client.Snapshot, expected int) error {
	if s.StatusCode() != expected {
		return fmt.Errorf("%w: GET %s expected %d, got %d (trace ID: %s)", ErrUnexpectedStatusCode, s.URL(), expected, s.StatusCode(), s.TraceID())
	}

	return nil
}

func field(s *client.Snapshot, path string) (extract.Value, error) {
	value, err := s.Field(path)
	if err != nil {
		return extract.Value{}, fmt.Errorf("reading field %q: %w", path, err)
	}

	return value, nil
}

// AssertFieldPresent checks a field exists and is not null.
func AssertFieldPresent(s *client.Snapshot, path string) error {
	value, err := field(s, path)
	if err != nil {
		return err
	}

	if !value.Present() {
		return fmt.Errorf("%w: %q is null or missing in %s", ErrFieldAbsent, path, s.URL())
	}

	return nil
}

// StringField returns a required string field, absence is an error.
func StringField(s *client.Snapshot, path string) (string, error) {
	value, err := field(s, path)
	if err != nil {
		return "", err
	}

	if !value.Present() {
		return "", fmt.Errorf("%w: %q is null or missing in %s", ErrFieldAbsent, path, s.URL())
	}

	str, ok := value.String()
	if !ok {
		return "", fmt.Errorf("%w: %q in %s is not a scalar", ErrFieldMismatch, path, s.URL())
	}

	return str, nil
}

// AssertFieldEquals checks a required field has the expected value.
func AssertFieldEquals(s *client.Snapshot, path, expected string) error {
	actual, err := StringField(s, path)
	if err != nil {
		return err
	}

	if actual != expected {
		return fmt.Errorf("%w: %q in %s expected %q, got %q", ErrFieldMismatch, path, s.URL(), expected, actual)
	}

	return nil
}

// AssertOptionalFieldEquals is like AssertFieldEquals but the field may be
// absent.
func AssertOptionalFieldEquals(s *client.Snapshot, path, expected string) error {
	value, err := field(s, path)
	if err != nil {
		return err
	}

	if !value.Present() {
		return nil
	}

	return AssertFieldEquals(s, path, expected)
}

// AssertFieldFormat checks a field conforms to a well known format.
func AssertFieldFormat(s *client.Snapshot, path, format string, optional bool) error {
	value, err := field(s, path)
	if err != nil {
		return err
	}

	if !value.Present() {
		if optional {
			return nil
		}

		return fmt.Errorf("%w: %q is null or missing in %s", ErrFieldAbsent, path, s.URL())
	}

	actual, ok := value.String()
	if !ok {
		return fmt.Errorf("%w: %q in %s is not a scalar", ErrFieldMismatch, path, s.URL())
	}

	switch format {
	case FormatDate:
		if _, err := time.Parse(dateLayout, actual); err != nil {
			return fmt.Errorf("%w: %q in %s expected a %s date, got %q", ErrFieldMismatch, path, s.URL(), dateLayout, actual)
		}
	default:
		return fmt.Errorf("%w: unknown format %q for %q", ErrFieldMismatch, format, path)
	}

	return nil
}

func collectionLen(s *client.Snapshot, path string) (int, error) {
	value, err := field(s, path)
	if err != nil {
		return 0, err
	}

	if !value.Present() {
		return 0, fmt.Errorf("%w: collection %q is null or missing in %s", ErrFieldAbsent, path, s.URL())
	}

	length, ok := value.Len()
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s is not a collection", ErrFieldMismatch, path, s.URL())
	}

	return length, nil
}

// AssertCollectionSizeGreaterThan checks a collection has more than
// minExclusive elements.
func AssertCollectionSizeGreaterThan(s *client.Snapshot, path string, minExclusive int) error {
	length, err := collectionLen(s, path)
	if err != nil {
		return err
	}

	if length <= minExclusive {
		return fmt.Errorf("%w: %q in %s should have more than %d elements, got %d", ErrCollectionTooSmall, path, s.URL(), minExclusive, length)
	}

	return nil
}

// AssertCollectionSize checks a collection has exactly the expected number
// of elements.
func AssertCollectionSize(s *client.Snapshot, path string, expected int) error {
	length, err := collectionLen(s, path)
	if err != nil {
		return err
	}

	if length != expected {
		return fmt.Errorf("%w: %q in %s expected %d elements, got %d", ErrCollectionSizeMismatch, path, s.URL(), expected, length)
	}

	return nil
}

// AssertBodiesIdentical checks two responses have byte for byte identical
// bodies.  The error includes a structural diff where both are JSON.
func AssertBodiesIdentical(a, b *client.Snapshot) error {
	if a.Body() == b.Body() {
		return nil
	}

	return fmt.Errorf("%w: %s and %s differ: %s", ErrBodyMismatch, a.URL(), b.URL(), diff(a.Body(), b.Body()))
}

// AssertSchema checks the body conforms to the named schema.
func AssertSchema(checker *schema.Checker, s *client.Snapshot, name string) error {
	document, err := s.Document()
	if err != nil {
		return err
	}

	if err := checker.Validate(name, document); err != nil {
		return fmt.Errorf("%s: %w", s.URL(), err)
	}

	return nil
}

func diff(a, b string) string {
	var aDoc, bDoc any

	if json.Unmarshal([]byte(a), &aDoc) != nil || json.Unmarshal([]byte(b), &bDoc) != nil {
		return cmp.Diff(a, b)
	}

	if d := cmp.Diff(aDoc, bDoc); d != "" {
		return d
	}

	// Semantically the same, but the encoding differs e.g. key order.
	return cmp.Diff(a, b)
}
