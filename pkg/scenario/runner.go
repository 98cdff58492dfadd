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

// Package scenario describes chains of dependent API requests as data and
// executes them.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/unikorn-cloud/swapi-conformance/pkg/client"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"
	"github.com/unikorn-cloud/swapi-conformance/pkg/swapi"
	"github.com/unikorn-cloud/swapi-conformance/pkg/verify"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Observer is notified as each scenario completes.
type Observer func(result *Result)

// Runner executes scenarios.
type Runner struct {
	fetcher  Fetcher
	fixtures Fixtures
	checker  *schema.Checker
	observer Observer
}

// Option configures a runner.
type Option func(*Runner)

// WithSchemaChecker enables schema checks, without one any step that
// requests a schema check fails.
func WithSchemaChecker(checker *schema.Checker) Option {
	return func(r *Runner) {
		r.checker = checker
	}
}

// WithObserver registers a callback for completed scenarios.
func WithObserver(observer Observer) Option {
	return func(r *Runner) {
		r.observer = observer
	}
}

// NewRunner creates a runner.  Fixtures are read only for the lifetime of
// the runner.
func NewRunner(fetcher Fetcher, fixtures Fixtures, options ...Option) *Runner {
	r := &Runner{
		fetcher:  fetcher,
		fixtures: fixtures,
	}

	for _, o := range options {
		o(r)
	}

	return r
}

// Run executes all scenarios in the set in order.  A failing scenario
// never stops the run, but will cause anything that depends on it to be
// skipped.
func (r *Runner) Run(ctx context.Context, set *Set) *Report {
	report := &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}

	log := log.FromContext(ctx).WithValues("runID", report.RunID)
	ctx = logr.NewContext(ctx, log)

	log.Info("run starting", "scenarios", len(set.Scenarios))

	statuses := map[string]Status{}

	for i := range set.Scenarios {
		sc := &set.Scenarios[i]

		var result Result

		if reason := skipReason(ctx, sc, statuses); reason != "" {
			result = Result{
				Name:   sc.Name,
				Status: StatusSkipped,
				Reason: reason,
			}

			log.Info("scenario skipped", "scenario", sc.Name, "reason", reason)
		} else {
			result = r.RunScenario(ctx, sc)
		}

		statuses[sc.Name] = result.Status
		report.Results = append(report.Results, result)

		if r.observer != nil {
			r.observer(&report.Results[len(report.Results)-1])
		}
	}

	report.Duration = time.Since(report.Started)

	log.Info("run complete", "summary", report.Summary())

	return report
}

func skipReason(ctx context.Context, sc *Scenario, statuses map[string]Status) string {
	if err := ctx.Err(); err != nil {
		return fmt.Sprintf("run cancelled: %v", err)
	}

	for _, dependency := range sc.DependsOn {
		status, ok := statuses[dependency]
		if !ok {
			return fmt.Sprintf("dependency %q has not run", dependency)
		}

		if status != StatusPassed {
			return fmt.Sprintf("dependency %q %s", dependency, status)
		}
	}

	return ""
}

// RunScenario executes a single scenario and its full navigation chain,
// dependencies are not considered.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) Result {
	log := log.FromContext(ctx).WithValues("scenario", sc.Name)
	ctx = logr.NewContext(ctx, log)

	start := time.Now()

	result := Result{
		Name:   sc.Name,
		Status: StatusPassed,
	}

	snapshots := map[string]*client.Snapshot{}

	for i := range sc.Steps {
		step := &sc.Steps[i]

		snapshot, failures := r.runStep(ctx, step, snapshots)

		if snapshot != nil {
			result.Steps = append(result.Steps, StepResult{
				Name:       step.Name,
				URL:        snapshot.URL(),
				StatusCode: snapshot.StatusCode(),
				Duration:   snapshot.Duration(),
			})
		}

		for _, failure := range failures {
			result.Failures = append(result.Failures, fmt.Errorf("step %q: %w", step.Name, failure))
		}

		// Subsequent steps depend on this one, so there is no point going on.
		if len(failures) != 0 {
			result.Status = StatusFailed

			break
		}

		snapshots[step.Name] = snapshot
	}

	result.Duration = time.Since(start)

	if result.Status == StatusFailed {
		log.Info("scenario failed", "duration", result.Duration, "error", result.Err())
	} else {
		log.Info("scenario passed", "duration", result.Duration)
	}

	return result
}

func (r *Runner) reference(step *Step, snapshots map[string]*client.Snapshot) (string, error) {
	if step.From == nil {
		return step.Path, nil
	}

	parent, ok := snapshots[step.From.Step]
	if !ok {
		return "", fmt.Errorf("%w: step %q has not run", ErrInvalidScenario, step.From.Step)
	}

	ref, err := verify.StringField(parent, step.From.Field)
	if err != nil {
		return "", fmt.Errorf("reference %s.%s: %w", step.From.Step, step.From.Field, err)
	}

	return ref, nil
}

func (r *Runner) runStep(ctx context.Context, step *Step, snapshots map[string]*client.Snapshot) (*client.Snapshot, []error) {
	log := log.FromContext(ctx).WithValues("step", step.Name)

	ref, err := r.reference(step, snapshots)
	if err != nil {
		return nil, []error{err}
	}

	snapshot, err := r.fetcher.Get(ctx, ref)
	if err != nil {
		return nil, []error{err}
	}

	log.V(1).Info("fetched", "url", snapshot.URL(), "status", snapshot.StatusCode(), "traceID", snapshot.TraceID())

	// Nothing else about the response is meaningful if this is wrong.
	if err := verify.AssertStatus(snapshot, step.ExpectedStatus()); err != nil {
		return snapshot, []error{err}
	}

	var errs []error

	if step.Schema != "" {
		if r.checker == nil {
			errs = append(errs, fmt.Errorf("%w: schema %q requested but no schema checker configured", ErrInvalidScenario, step.Schema))
		} else if err := verify.AssertSchema(r.checker, snapshot, step.Schema); err != nil {
			errs = append(errs, err)
		}

		if record := swapi.NewRecord(step.Schema); record != nil && snapshot.Decode(record) == nil {
			log.V(1).Info("decoded", "resource", swapi.Summary(step.Schema, record))
		}
	}

	for i := range step.Fields {
		if err := r.checkField(snapshot, &step.Fields[i]); err != nil {
			errs = append(errs, err)
		}
	}

	for i := range step.Collections {
		if err := r.checkCollection(snapshot, &step.Collections[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if step.SameBodyAs != "" {
		other, ok := snapshots[step.SameBodyAs]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: step %q has not run", ErrInvalidScenario, step.SameBodyAs))
		} else if err := verify.AssertBodiesIdentical(other, snapshot); err != nil {
			errs = append(errs, err)
		}
	}

	return snapshot, errs
}

func (r *Runner) checkField(snapshot *client.Snapshot, check *FieldCheck) error {
	if check.Format != "" {
		if err := verify.AssertFieldFormat(snapshot, check.Path, check.Format, check.Optional); err != nil {
			return err
		}
	}

	var expected *string

	switch {
	case check.Equals != nil:
		expected = check.Equals
	case check.Fixture != "":
		value, err := r.fixtures.Lookup(check.Fixture)
		if err != nil {
			return err
		}

		expected = &value
	}

	switch {
	case expected == nil && check.Optional:
		return nil
	case expected == nil:
		return verify.AssertFieldPresent(snapshot, check.Path)
	case check.Optional:
		return verify.AssertOptionalFieldEquals(snapshot, check.Path, *expected)
	}

	return verify.AssertFieldEquals(snapshot, check.Path, *expected)
}

func (r *Runner) checkCollection(snapshot *client.Snapshot, check *CollectionCheck) error {
	switch {
	case check.MoreThan != nil:
		return verify.AssertCollectionSizeGreaterThan(snapshot, check.Path, *check.MoreThan)
	case check.Exactly != nil:
		return verify.AssertCollectionSize(snapshot, check.Path, *check.Exactly)
	case check.ExactlyFixture != "":
		expected, err := r.fixtures.Int(check.ExactlyFixture)
		if err != nil {
			return err
		}

		return verify.AssertCollectionSize(snapshot, check.Path, expected)
	}

	return fmt.Errorf("%w: collection %q has no bound", ErrInvalidScenario, check.Path)
}
