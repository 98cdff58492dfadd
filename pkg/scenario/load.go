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
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unikorn-cloud/swapi-conformance/pkg/extract"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"
	"github.com/unikorn-cloud/swapi-conformance/pkg/verify"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

var (
	// ErrInvalidScenario is raised when a scenario definition is unusable.
	ErrInvalidScenario = errors.New("invalid scenario")
)

//go:embed data/scenarios.yaml
var defaultScenarios []byte

// Default returns the canonical scenario set.
func Default() (*Set, error) {
	return Load(bytes.NewReader(defaultScenarios))
}

// LoadFile reads a scenario set from a YAML file.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}

	defer f.Close()

	return Load(f)
}

// Load decodes and validates a scenario set.  Unknown keys are rejected.
func Load(r io.Reader) (*Set, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	set := &Set{}

	if err := decoder.Decode(set); err != nil {
		return nil, fmt.Errorf("%w: decoding scenarios: %w", ErrInvalidScenario, err)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Names returns the scenario names in order.
func (s *Set) Names() []string {
	names := make([]string, len(s.Scenarios))

	for i := range s.Scenarios {
		names[i] = s.Scenarios[i].Name
	}

	return names
}

// Scenario looks up a scenario by name.
func (s *Set) Scenario(name string) (*Scenario, bool) {
	for i := range s.Scenarios {
		if s.Scenarios[i].Name == name {
			return &s.Scenarios[i], true
		}
	}

	return nil, false
}

// Validate checks the set is internally consistent.  Dependencies and step
// references must point backwards, which also rules out cycles.
func (s *Set) Validate() error {
	var errs []error

	if len(s.Scenarios) == 0 {
		errs = append(errs, fmt.Errorf("no scenarios defined"))
	}

	seen := sets.New[string]()

	for i := range s.Scenarios {
		sc := &s.Scenarios[i]

		if sc.Name == "" {
			errs = append(errs, fmt.Errorf("scenario %d has no name", i))

			continue
		}

		if seen.Has(sc.Name) {
			errs = append(errs, fmt.Errorf("scenario %q defined more than once", sc.Name))
		}

		for _, dependency := range sc.DependsOn {
			if !seen.Has(dependency) {
				errs = append(errs, fmt.Errorf("scenario %q depends on %q which is not declared before it", sc.Name, dependency))
			}
		}

		seen.Insert(sc.Name)

		errs = append(errs, s.validateSteps(sc)...)
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, utilerrors.NewAggregate(errs))
	}

	return nil
}

// CheckSchemas makes sure every schema a step asks for is known to the
// checker, so a typo is found before anything is fetched.
func (s *Set) CheckSchemas(checker *schema.Checker) error {
	var errs []error

	for i := range s.Scenarios {
		sc := &s.Scenarios[i]

		for j := range sc.Steps {
			step := &sc.Steps[j]

			if step.Schema != "" && !checker.Has(step.Schema) {
				errs = append(errs, fmt.Errorf("scenario %q step %q uses unknown schema %q, expected one of %v", sc.Name, step.Name, step.Schema, checker.Names()))
			}
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, utilerrors.NewAggregate(errs))
	}

	return nil
}

// Override returns a copy of the set with fixture overrides applied, and
// validated again as the overrides may break checks that use them.
func (s *Set) Override(overrides map[string]string) (*Set, error) {
	fixtures, err := s.Fixtures.Override(overrides)
	if err != nil {
		return nil, err
	}

	out := *s
	out.Fixtures = fixtures

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}

//nolint:cyclop
func (s *Set) validateSteps(sc *Scenario) []error {
	var errs []error

	if len(sc.Steps) == 0 {
		errs = append(errs, fmt.Errorf("scenario %q has no steps", sc.Name))
	}

	seen := sets.New[string]()

	for i := range sc.Steps {
		step := &sc.Steps[i]

		prefix := fmt.Sprintf("scenario %q step %q", sc.Name, step.Name)

		if step.Name == "" {
			errs = append(errs, fmt.Errorf("scenario %q step %d has no name", sc.Name, i))
		} else if seen.Has(step.Name) {
			errs = append(errs, fmt.Errorf("%s defined more than once", prefix))
		}

		switch {
		case step.Path == "" && step.From == nil:
			errs = append(errs, fmt.Errorf("%s has neither a path nor a reference", prefix))
		case step.Path != "" && step.From != nil:
			errs = append(errs, fmt.Errorf("%s has both a path and a reference", prefix))
		case step.From != nil:
			if !seen.Has(step.From.Step) {
				errs = append(errs, fmt.Errorf("%s references step %q which is not declared before it", prefix, step.From.Step))
			}

			if _, err := extract.Compile(step.From.Field); err != nil {
				errs = append(errs, fmt.Errorf("%s reference: %w", prefix, err))
			}
		}

		if step.ExpectStatus != 0 && (step.ExpectStatus < 100 || step.ExpectStatus > 599) {
			errs = append(errs, fmt.Errorf("%s expects invalid status %d", prefix, step.ExpectStatus))
		}

		if step.SameBodyAs != "" && !seen.Has(step.SameBodyAs) {
			errs = append(errs, fmt.Errorf("%s compares with step %q which is not declared before it", prefix, step.SameBodyAs))
		}

		for j := range step.Fields {
			errs = append(errs, s.validateField(prefix, &step.Fields[j])...)
		}

		for j := range step.Collections {
			errs = append(errs, s.validateCollection(prefix, &step.Collections[j])...)
		}

		seen.Insert(step.Name)
	}

	return errs
}

func (s *Set) validateField(prefix string, check *FieldCheck) []error {
	var errs []error

	if _, err := extract.Compile(check.Path); err != nil {
		errs = append(errs, fmt.Errorf("%s field: %w", prefix, err))
	}

	if check.Fixture != "" && check.Equals != nil {
		errs = append(errs, fmt.Errorf("%s field %q has both a fixture and a literal value", prefix, check.Path))
	}

	if check.Fixture != "" {
		if _, err := s.Fixtures.Lookup(check.Fixture); err != nil {
			errs = append(errs, fmt.Errorf("%s field %q: %w", prefix, check.Path, err))
		}
	}

	if check.Format != "" && check.Format != verify.FormatDate {
		errs = append(errs, fmt.Errorf("%s field %q has unknown format %q", prefix, check.Path, check.Format))
	}

	return errs
}

func (s *Set) validateCollection(prefix string, check *CollectionCheck) []error {
	var errs []error

	if _, err := extract.Compile(check.Path); err != nil {
		errs = append(errs, fmt.Errorf("%s collection: %w", prefix, err))
	}

	bounds := 0

	if check.Exactly != nil {
		bounds++
	}

	if check.ExactlyFixture != "" {
		bounds++

		if _, err := s.Fixtures.Int(check.ExactlyFixture); err != nil {
			errs = append(errs, fmt.Errorf("%s collection %q: %w", prefix, check.Path, err))
		}
	}

	if check.MoreThan != nil {
		bounds++
	}

	if bounds != 1 {
		errs = append(errs, fmt.Errorf("%s collection %q must have exactly one bound, has %d", prefix, check.Path, bounds))
	}

	return errs
}
