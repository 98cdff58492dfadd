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

package scenario_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"

	"k8s.io/utils/ptr"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	set, err := scenario.Default()
	require.NoError(t, err)
	require.Equal(t, []string{
		"people-detail",
		"second-film-detail",
		"first-planet-of-second-film",
		"planet-self-reference",
		"film-not-found",
	}, set.Names())

	require.Equal(t, "gold", set.Fixtures["skinColor"])
	require.Equal(t, "tundra, ice caves, mountain ranges", set.Fixtures["terrain"])

	filmCount, err := set.Fixtures.Int("filmCount")
	require.NoError(t, err)
	require.Equal(t, 6, filmCount)

	notFound, ok := set.Scenario("film-not-found")
	require.True(t, ok)
	require.Empty(t, notFound.DependsOn)
	require.Equal(t, 404, notFound.Steps[0].ExpectedStatus())

	selfReference, ok := set.Scenario("planet-self-reference")
	require.True(t, ok)
	require.Equal(t, []string{"people-detail"}, selfReference.DependsOn)
	require.Equal(t, 200, selfReference.Steps[3].ExpectedStatus())
	require.Equal(t, "planet", selfReference.Steps[3].SameBodyAs)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenarios.yaml")

	data := `
fixtures:
  name: Luke Skywalker
scenarios:
- name: luke
  steps:
  - name: person
    path: people/1/
    fields:
    - path: name
      fixture: name
`

	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	set, err := scenario.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"luke"}, set.Names())

	_, err = scenario.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	data := `
scenarios:
- name: typo
  steps:
  - name: person
    path: people/1/
    expect_status: 200
`

	_, err := scenario.Load(strings.NewReader(data))
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func validSet() *scenario.Set {
	return &scenario.Set{
		Fixtures: scenario.Fixtures{
			"count": "2",
		},
		Scenarios: []scenario.Scenario{
			{
				Name: "first",
				Steps: []scenario.Step{
					{
						Name: "a",
						Path: "people/1/",
					},
					{
						Name: "b",
						From: &scenario.Reference{Step: "a", Field: "films[0]"},
						Collections: []scenario.CollectionCheck{
							{Path: "planets", ExactlyFixture: "count"},
						},
						SameBodyAs: "a",
					},
				},
			},
			{
				Name:      "second",
				DependsOn: []string{"first"},
				Steps: []scenario.Step{
					{
						Name: "a",
						Path: "films/1/",
						Collections: []scenario.CollectionCheck{
							{Path: "planets", MoreThan: ptr.To(1)},
						},
					},
				},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validSet().Validate())

	tests := []struct {
		name   string
		mutate func(*scenario.Set)
		reason string
	}{
		{
			name:   "empty",
			mutate: func(s *scenario.Set) { s.Scenarios = nil },
			reason: "no scenarios",
		},
		{
			name:   "duplicate scenario",
			mutate: func(s *scenario.Set) { s.Scenarios[1].Name = "first" },
			reason: "more than once",
		},
		{
			name:   "forward dependency",
			mutate: func(s *scenario.Set) { s.Scenarios[0].DependsOn = []string{"second"} },
			reason: "not declared before it",
		},
		{
			name:   "self dependency",
			mutate: func(s *scenario.Set) { s.Scenarios[1].DependsOn = []string{"second"} },
			reason: "not declared before it",
		},
		{
			name:   "no steps",
			mutate: func(s *scenario.Set) { s.Scenarios[1].Steps = nil },
			reason: "no steps",
		},
		{
			name:   "no target",
			mutate: func(s *scenario.Set) { s.Scenarios[0].Steps[0].Path = "" },
			reason: "neither a path nor a reference",
		},
		{
			name:   "two targets",
			mutate: func(s *scenario.Set) { s.Scenarios[0].Steps[1].Path = "films/1/" },
			reason: "both a path and a reference",
		},
		{
			name:   "forward reference",
			mutate: func(s *scenario.Set) { s.Scenarios[0].Steps[1].From.Step = "b" },
			reason: "references step",
		},
		{
			name:   "bad reference path",
			mutate: func(s *scenario.Set) { s.Scenarios[0].Steps[1].From.Field = "films[" },
			reason: "invalid path",
		},
		{
			name:   "bad status",
			mutate: func(s *scenario.Set) { s.Scenarios[0].Steps[0].ExpectStatus = 42 },
			reason: "invalid status",
		},
		{
			name:   "bad body comparison",
			mutate: func(s *scenario.Set) { s.Scenarios[0].Steps[1].SameBodyAs = "c" },
			reason: "compares with step",
		},
		{
			name: "missing fixture",
			mutate: func(s *scenario.Set) {
				s.Scenarios[0].Steps[0].Fields = []scenario.FieldCheck{{Path: "name", Fixture: "name"}}
			},
			reason: `fixture "name" is not defined`,
		},
		{
			name: "fixture and literal",
			mutate: func(s *scenario.Set) {
				s.Fixtures["name"] = "Luke"
				s.Scenarios[0].Steps[0].Fields = []scenario.FieldCheck{{Path: "name", Fixture: "name", Equals: ptr.To("Luke")}}
			},
			reason: "both a fixture and a literal",
		},
		{
			name: "unknown format",
			mutate: func(s *scenario.Set) {
				s.Scenarios[0].Steps[0].Fields = []scenario.FieldCheck{{Path: "created", Format: "rfc3339"}}
			},
			reason: "unknown format",
		},
		{
			name:   "non integer fixture",
			mutate: func(s *scenario.Set) { s.Fixtures["count"] = "two" },
			reason: "not an integer",
		},
		{
			name: "two bounds",
			mutate: func(s *scenario.Set) {
				s.Scenarios[1].Steps[0].Collections[0].Exactly = ptr.To(3)
			},
			reason: "exactly one bound, has 2",
		},
		{
			name: "no bounds",
			mutate: func(s *scenario.Set) {
				s.Scenarios[1].Steps[0].Collections[0].MoreThan = nil
			},
			reason: "exactly one bound, has 0",
		},
	}

	for _, test := range tests {
		set := validSet()
		test.mutate(set)

		err := set.Validate()
		require.ErrorIs(t, err, scenario.ErrInvalidScenario, test.name)
		require.Contains(t, err.Error(), test.reason, test.name)
	}
}

func TestFixturesOverride(t *testing.T) {
	t.Parallel()

	fixtures := scenario.Fixtures{"gravity": "1.1 standard", "terrain": "tundra"}

	overridden, err := fixtures.Override(map[string]string{"gravity": "1 standard"})
	require.NoError(t, err)
	require.Equal(t, "1 standard", overridden["gravity"])
	require.Equal(t, "tundra", overridden["terrain"])

	// The original is untouched.
	require.Equal(t, "1.1 standard", fixtures["gravity"])

	_, err = fixtures.Override(map[string]string{"gravty": "1 standard"})
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func TestSetOverride(t *testing.T) {
	t.Parallel()

	set, err := scenario.Default()
	require.NoError(t, err)

	overridden, err := set.Override(map[string]string{"filmCount": "7"})
	require.NoError(t, err)
	require.Equal(t, "7", overridden.Fixtures["filmCount"])
	require.Equal(t, "6", set.Fixtures["filmCount"])

	// Collection bounds are only checked once the override is applied.
	_, err = set.Override(map[string]string{"filmCount": "abc"})
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
	require.Contains(t, err.Error(), `fixture "filmCount" value "abc" is not an integer`)

	_, err = set.Override(map[string]string{"filmcount": "6"})
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
}

func TestCheckSchemas(t *testing.T) {
	t.Parallel()

	checker, err := schema.New(context.Background())
	require.NoError(t, err)

	set, err := scenario.Default()
	require.NoError(t, err)
	require.NoError(t, set.CheckSchemas(checker))

	typo := validSet()
	typo.Scenarios[0].Steps[0].Schema = "Plannet"

	err = typo.CheckSchemas(checker)
	require.ErrorIs(t, err, scenario.ErrInvalidScenario)
	require.Contains(t, err.Error(), `unknown schema "Plannet"`)
}
