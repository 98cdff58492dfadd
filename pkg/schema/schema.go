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

// Package schema checks response bodies against an OpenAPI description of
// the SWAPI resources.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrSchemaViolation is raised when a body doesn't match its schema.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrUnknownSchema is raised when a schema doesn't exist.
	ErrUnknownSchema = errors.New("unknown schema")
)

//go:embed swapi.yaml
var swapiDocument []byte

// Checker validates decoded JSON documents against named schemas.
type Checker struct {
	spec *openapi3.T
}

// New loads and validates the embedded OpenAPI document.
func New(ctx context.Context) (*Checker, error) {
	return NewFromData(ctx, swapiDocument)
}

// NewFromData loads an OpenAPI document from YAML or JSON.
func NewFromData(ctx context.Context, data []byte) (*Checker, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	return &Checker{
		spec: spec,
	}, nil
}

// Names returns the schemas that can be checked against, sorted.
func (c *Checker) Names() []string {
	if c.spec.Components == nil {
		return nil
	}

	names := make([]string, 0, len(c.spec.Components.Schemas))

	for name := range c.spec.Components.Schemas {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Has tells you whether the named schema exists.
func (c *Checker) Has(name string) bool {
	if c.spec.Components == nil {
		return false
	}

	ref, ok := c.spec.Components.Schemas[name]

	return ok && ref != nil && ref.Value != nil
}

// Validate checks a decoded JSON document against the named schema.
func (c *Checker) Validate(name string, document any) error {
	if !c.Has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	if err := c.spec.Components.Schemas[name].Value.VisitJSON(document, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSchemaViolation, name, err)
	}

	return nil
}
