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

package scenario

import (
	"fmt"
	"net/http"
	"strconv"
)

// Set is a collection of scenarios and the fixtures they refer to.
type Set struct {
	// Fixtures are the default expected values.
	Fixtures Fixtures `yaml:"fixtures"`
	// Scenarios are executed in order.
	Scenarios []Scenario `yaml:"scenarios"`
}

// Fixtures maps a fixture name to its expected value.
type Fixtures map[string]string

// Lookup returns a fixture value.
func (f Fixtures) Lookup(name string) (string, error) {
	value, ok := f[name]
	if !ok {
		return "", fmt.Errorf("%w: fixture %q is not defined", ErrInvalidScenario, name)
	}

	return value, nil
}

// Int returns a fixture value as an integer.
func (f Fixtures) Int(name string) (int, error) {
	value, err := f.Lookup(name)
	if err != nil {
		return 0, err
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: fixture %q value %q is not an integer", ErrInvalidScenario, name, value)
	}

	return i, nil
}

// Override returns a copy of the fixtures with the overrides applied.  Only
// existing fixtures may be overridden, a typo shouldn't silently do nothing.
func (f Fixtures) Override(overrides map[string]string) (Fixtures, error) {
	out := make(Fixtures, len(f))

	for k, v := range f {
		out[k] = v
	}

	for k, v := range overrides {
		if _, ok := f[k]; !ok {
			return nil, fmt.Errorf("%w: cannot override unknown fixture %q", ErrInvalidScenario, k)
		}

		out[k] = v
	}

	return out, nil
}

// Scenario is a linear chain of dependent requests.
type Scenario struct {
	// Name uniquely identifies the scenario.
	Name string `yaml:"name"`
	// Description is a human readable summary.
	Description string `yaml:"description,omitempty"`
	// DependsOn lists scenarios that must pass before this one runs.
	// They must be declared earlier in the set.
	DependsOn []string `yaml:"dependsOn,omitempty"`
	// Steps are executed in order, a failing step ends the scenario.
	Steps []Step `yaml:"steps"`
}

// Step is a single request and the checks made on its response.
type Step struct {
	// Name identifies the step within the scenario, so later steps can
	// refer to its response.
	Name string `yaml:"name"`
	// Path is a relative or absolute URL.
	Path string `yaml:"path,omitempty"`
	// From takes the URL from a field of an earlier step's response.
	From *Reference `yaml:"from,omitempty"`
	// ExpectStatus is the expected status code, defaulting to 200.
	ExpectStatus int `yaml:"expectStatus,omitempty"`
	// Schema optionally names a schema the body must conform to.
	Schema string `yaml:"schema,omitempty"`
	// Fields are scalar field checks.
	Fields []FieldCheck `yaml:"fields,omitempty"`
	// Collections are collection size checks.
	Collections []CollectionCheck `yaml:"collections,omitempty"`
	// SameBodyAs names an earlier step whose body must be identical.
	SameBodyAs string `yaml:"sameBodyAs,omitempty"`
}

// ExpectedStatus returns the status code the step expects.
func (s *Step) ExpectedStatus() int {
	if s.ExpectStatus == 0 {
		return http.StatusOK
	}

	return s.ExpectStatus
}

// Reference identifies a URL held in an earlier response.
type Reference struct {
	Step  string `yaml:"step"`
	Field string `yaml:"field"`
}

// FieldCheck checks a single field.  With neither Fixture nor Equals set
// the field only has to be present (or match Format).
type FieldCheck struct {
	Path string `yaml:"path"`
	// Fixture names the fixture holding the expected value.
	Fixture string `yaml:"fixture,omitempty"`
	// Equals is a literal expected value.
	Equals *string `yaml:"equals,omitempty"`
	// Format is a well known format the value must conform to.
	Format string `yaml:"format,omitempty"`
	// Optional allows the field to be missing or null, otherwise absence
	// is reported as a failure in its own right.
	Optional bool `yaml:"optional,omitempty"`
}

// CollectionCheck checks the size of a list field.  Exactly one bound
// must be specified.
type CollectionCheck struct {
	Path           string `yaml:"path"`
	Exactly        *int   `yaml:"exactly,omitempty"`
	ExactlyFixture string `yaml:"exactlyFixture,omitempty"`
	MoreThan       *int   `yaml:"moreThan,omitempty"`
}
