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

// Package metrics exposes a conformance report as Prometheus gauges,
// suitable for the node exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
)

const namespace = "swapi_conformance"

// NewRegistry returns a registry populated from the report.
func NewRegistry(report *scenario.Report) (*prometheus.Registry, error) {
	passed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scenario_passed",
		Help:      "1 if the scenario passed, 0 if it failed or was skipped.",
	}, []string{"scenario"})

	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scenario_duration_seconds",
		Help:      "Time taken to run the scenario.",
	}, []string{"scenario"})

	scenarios := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scenarios",
		Help:      "Number of scenarios by status.",
	}, []string{"status"})

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "When the last run started.",
	})

	registry := prometheus.NewRegistry()

	for _, c := range []prometheus.Collector{passed, duration, scenarios, lastRun} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}

	for i := range report.Results {
		result := &report.Results[i]

		value := 0.0
		if result.Status == scenario.StatusPassed {
			value = 1
		}

		passed.WithLabelValues(result.Name).Set(value)
		duration.WithLabelValues(result.Name).Set(result.Duration.Seconds())
	}

	for status, count := range report.Counts() {
		scenarios.WithLabelValues(string(status)).Set(float64(count))
	}

	lastRun.Set(float64(report.Started.Unix()))

	return registry, nil
}

// WriteFile atomically writes the report to a Prometheus textfile.
func WriteFile(path string, report *scenario.Report) error {
	registry, err := NewRegistry(report)
	if err != nil {
		return err
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
