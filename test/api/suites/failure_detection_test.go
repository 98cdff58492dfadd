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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
	"github.com/unikorn-cloud/swapi-conformance/pkg/verify"
	"github.com/unikorn-cloud/swapi-conformance/test/fake"
)

var _ = Describe("Failure Detection", func() {
	var (
		server *fake.Server
		runner *scenario.Runner
	)

	BeforeEach(func() {
		server, runner = env.PrivateFake()
	})

	Context("When the first planet has no terrain", func() {
		It("should report the field as absent", func() {
			// Given: Hoth without a terrain
			server.Mutate("planets", "4", func(r fake.Resource) {
				delete(r, "terrain")
			})

			// When: I run the planet scenario
			result := runner.RunScenario(ctx, env.Scenario("first-planet-of-second-film"))

			// Then: it should fail, naming the field
			Expect(result.Status).To(Equal(scenario.StatusFailed))
			Expect(result.Err()).To(MatchError(verify.ErrFieldAbsent))
			Expect(result.Err().Error()).To(ContainSubstring("terrain"))
		})
	})

	Context("When a planet changes between fetches", func() {
		It("should report the bodies as different", func() {
			// Given: a planet whose body differs every time
			server.MakeVolatile("planets", "4")

			// When: I fetch it twice
			result := runner.RunScenario(ctx, env.Scenario("planet-self-reference"))

			// Then: the self reference check should fail
			Expect(result.Err()).To(MatchError(verify.ErrBodyMismatch))
		})
	})

	Context("When the root person is missing", func() {
		It("should skip every dependent scenario", func() {
			// Given: C-3PO has been removed
			server.Delete("people", "2")

			// When: I run everything
			report := runner.Run(ctx, env.Set)

			// Then: only the not found scenario should pass
			Expect(report.Passed()).To(BeFalse())
			Expect(report.Counts()).To(Equal(map[scenario.Status]int{
				scenario.StatusPassed:  1,
				scenario.StatusFailed:  1,
				scenario.StatusSkipped: 3,
			}))

			result, ok := report.Result("people-detail")
			Expect(ok).To(BeTrue())
			Expect(result.Err()).To(MatchError(verify.ErrUnexpectedStatusCode))
		})
	})

	Context("When the seventh film exists", func() {
		It("should report an unexpected status", func() {
			// Given: a film that should not exist
			server.Mutate("films", "7", func(r fake.Resource) {
				r["title"] = "The Force Awakens"
				r["url"] = "{base}films/7/"
			})

			// When: I run the not found scenario
			result := runner.RunScenario(ctx, env.Scenario("film-not-found"))

			// Then: it should fail with a status mismatch
			Expect(result.Err()).To(MatchError(verify.ErrUnexpectedStatusCode))
			Expect(verify.Kind(result.Failures[0])).To(Equal("UnexpectedStatusCode"))
		})
	})
})
