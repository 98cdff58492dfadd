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

package verify

import (
	"errors"

	"github.com/unikorn-cloud/swapi-conformance/pkg/client"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"
)

var (
	// ErrUnexpectedStatusCode is raised when the status code differs.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")

	// ErrFieldMismatch is raised when a field is present but wrong.
	ErrFieldMismatch = errors.New("field mismatch")

	// ErrFieldAbsent is raised when a required field is missing or null.
	ErrFieldAbsent = errors.New("field absent")

	// ErrCollectionTooSmall is raised when a collection doesn't exceed its
	// lower bound.
	ErrCollectionTooSmall = errors.New("collection too small")

	// ErrCollectionSizeMismatch is raised when a collection doesn't have the
	// exact number of elements expected.
	ErrCollectionSizeMismatch = errors.New("collection size mismatch")

	// ErrBodyMismatch is raised when two bodies that should be identical
	// are not.
	ErrBodyMismatch = errors.New("body mismatch")
)

//nolint:gochecknoglobals
var kinds = []struct {
	err  error
	name string
}{
	{err: ErrUnexpectedStatusCode, name: "UnexpectedStatusCode"},
	{err: ErrFieldMismatch, name: "FieldMismatch"},
	{err: ErrFieldAbsent, name: "FieldAbsent"},
	{err: ErrCollectionTooSmall, name: "CollectionTooSmall"},
	{err: ErrCollectionSizeMismatch, name: "CollectionSizeMismatch"},
	{err: ErrBodyMismatch, name: "BodyMismatch"},
	{err: schema.ErrSchemaViolation, name: "SchemaViolation"},
	{err: schema.ErrUnknownSchema, name: "UnknownSchema"},
	{err: client.ErrNetwork, name: "NetworkError"},
	{err: client.ErrMalformedBody, name: "MalformedBody"},
}

// Kind returns a stable name for the class of failure, or "Error" if it's
// not one we know about.
func Kind(err error) string {
	for _, kind := range kinds {
		if errors.Is(err, kind.err) {
			return kind.name
		}
	}

	return "Error"
}
