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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package suites

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
	"github.com/unikorn-cloud/swapi-conformance/test/api"
)

// The tree is built from the embedded set before any suite setup runs.
//
//nolint:gochecknoglobals
var canonical = func() *scenario.Set {
	set, err := scenario.Default()
	if err != nil {
		panic(err)
	}

	return set
}()

var _ = Describe("Canonical Scenarios", Ordered, func() {
	var report *scenario.Report

	BeforeAll(func() {
		runCtx, cancel := context.WithTimeout(ctx, config.TestTimeout)
		defer cancel()

		report = env.Runner().Run(runCtx, env.Set)

		GinkgoWriter.Printf("Run %s: %s\n", report.RunID, report.Summary())
	})

	for _, sc := range canonical.Scenarios {
		It("should pass "+sc.Name, func() {
			// Given: the scenario's dependencies have passed
			// When: its request chain is executed
			result, ok := report.Result(sc.Name)
			Expect(ok).To(BeTrue())

			// Then: every assertion should hold
			api.VerifyResult(result)
		})
	}

	It("should report the run as passed", func() {
		Expect(report.Err()).NotTo(HaveOccurred())
		Expect(report.Passed()).To(BeTrue())
		Expect(report.Results).To(HaveLen(len(canonical.Scenarios)))
	})
})
