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
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Status is the outcome of a scenario.
type Status string

const (
	StatusPassed  Status = "Passed"
	StatusFailed  Status = "Failed"
	StatusSkipped Status = "Skipped"
)

// StepResult records what a step fetched.
type StepResult struct {
	Name       string
	URL        string
	StatusCode int
	Duration   time.Duration
}

// Result is the outcome of a single scenario.
type Result struct {
	Name     string
	Status   Status
	Failures []error
	// Reason explains why a scenario was skipped.
	Reason   string
	Steps    []StepResult
	Duration time.Duration
}

// Err returns the scenario's failures as a single error.
func (r *Result) Err() error {
	return utilerrors.NewAggregate(r.Failures)
}

// Report is the outcome of a whole run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Results  []Result
}

// Result looks up a scenario's result by name.
func (r *Report) Result(name string) (*Result, bool) {
	for i := range r.Results {
		if r.Results[i].Name == name {
			return &r.Results[i], true
		}
	}

	return nil, false
}

// Counts returns the number of scenarios with each status.
func (r *Report) Counts() map[Status]int {
	counts := map[Status]int{
		StatusPassed:  0,
		StatusFailed:  0,
		StatusSkipped: 0,
	}

	for i := range r.Results {
		counts[r.Results[i].Status]++
	}

	return counts
}

// Passed is true when nothing failed or was skipped.
func (r *Report) Passed() bool {
	counts := r.Counts()

	return counts[StatusFailed] == 0 && counts[StatusSkipped] == 0
}

// Summary returns a one line summary of the run.
func (r *Report) Summary() string {
	counts := r.Counts()

	verdict := "PASSED"
	if !r.Passed() {
		verdict = "FAILED"
	}

	return fmt.Sprintf("%s: %d scenarios, %d passed, %d failed, %d skipped in %s", verdict, len(r.Results), counts[StatusPassed], counts[StatusFailed], counts[StatusSkipped], r.Duration.Round(time.Millisecond))
}

// Err returns every failure in the run, prefixed with its scenario, or nil
// if there were none.
func (r *Report) Err() error {
	var errs []error

	for i := range r.Results {
		for _, err := range r.Results[i].Failures {
			errs = append(errs, fmt.Errorf("%s: %w", r.Results[i].Name, err))
		}
	}

	return utilerrors.NewAggregate(errs)
}
