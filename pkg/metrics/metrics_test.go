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

package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/swapi-conformance/pkg/metrics"
	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
)

func report() *scenario.Report {
	return &scenario.Report{
		RunID:    "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
		Started:  time.Unix(1700000000, 0),
		Duration: 3 * time.Second,
		Results: []scenario.Result{
			{Name: "people-detail", Status: scenario.StatusPassed, Duration: 1500 * time.Millisecond},
			{Name: "second-film-detail", Status: scenario.StatusFailed, Failures: []error{errors.New("boom")}, Duration: time.Second},
			{Name: "film-not-found", Status: scenario.StatusSkipped},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	registry, err := metrics.NewRegistry(report())
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()

			for _, label := range metric.GetLabel() {
				key += "/" + label.GetValue()
			}

			values[key] = metric.GetGauge().GetValue()
		}
	}

	require.Equal(t, map[string]float64{
		"swapi_conformance_scenario_passed/people-detail":                1,
		"swapi_conformance_scenario_passed/second-film-detail":           0,
		"swapi_conformance_scenario_passed/film-not-found":               0,
		"swapi_conformance_scenario_duration_seconds/people-detail":      1.5,
		"swapi_conformance_scenario_duration_seconds/second-film-detail": 1,
		"swapi_conformance_scenario_duration_seconds/film-not-found":     0,
		"swapi_conformance_scenarios/Passed":                             1,
		"swapi_conformance_scenarios/Failed":                             1,
		"swapi_conformance_scenarios/Skipped":                            1,
		"swapi_conformance_last_run_timestamp_seconds":                   1700000000,
	}, values)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "swapi.prom")

	require.NoError(t, metrics.WriteFile(path, report()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	require.Contains(t, text, "# TYPE swapi_conformance_scenario_passed gauge")
	require.Contains(t, text, `swapi_conformance_scenario_passed{scenario="people-detail"} 1`)
	require.Contains(t, text, `swapi_conformance_scenarios{status="Skipped"} 1`)
	require.Contains(t, text, "\nswapi_conformance_last_run_timestamp_seconds ")

	require.Error(t, metrics.WriteFile(filepath.Join(t.TempDir(), "missing", "swapi.prom"), report()))
}
