/*
Copyright 2024-2025 the Unikorn Authors.
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
package api

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/swapi-conformance/pkg/client"
	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"
	"github.com/unikorn-cloud/swapi-conformance/pkg/swapi"
	"github.com/unikorn-cloud/swapi-conformance/test/fake"
)

// Environment is everything a suite needs to talk to SWAPI.
type Environment struct {
	Config    *TestConfig
	Client    *client.Client
	Checker   *schema.Checker
	Set       *scenario.Set
	Fixtures  scenario.Fixtures
	Endpoints *swapi.Endpoints

	// Fake is only set when not running live.
	Fake *fake.Server
}

// NewEnvironment creates the client and, unless running live, the fake
// server it talks to.  The fake is shut down when the suite ends.
func NewEnvironment(ctx context.Context, config *TestConfig) *Environment {
	env := &Environment{
		Config:    config,
		Endpoints: swapi.NewEndpoints(),
	}

	baseURL := config.BaseURL

	if !config.Live {
		env.Fake = fake.NewServer()
		DeferCleanup(env.Fake.Close)

		baseURL = env.Fake.URL()
	}

	GinkgoWriter.Printf("Running against %s\n", baseURL)

	c, err := client.New(
		client.WithBaseURL(baseURL),
		client.WithTimeout(config.RequestTimeout),
		client.WithLogResponses(config.LogResponses),
	)
	Expect(err).NotTo(HaveOccurred())

	env.Client = c

	env.Checker, err = schema.New(ctx)
	Expect(err).NotTo(HaveOccurred())

	set, err := scenario.Default()
	Expect(err).NotTo(HaveOccurred())

	env.Set, err = set.Override(config.Fixtures)
	Expect(err).NotTo(HaveOccurred())
	Expect(env.Set.CheckSchemas(env.Checker)).To(Succeed())

	env.Fixtures = env.Set.Fixtures

	return env
}

// Runner returns a scenario runner bound to the environment.
func (e *Environment) Runner() *scenario.Runner {
	return scenario.NewRunner(e.Client, e.Fixtures, scenario.WithSchemaChecker(e.Checker))
}

// Scenario looks up a scenario that must exist.
func (e *Environment) Scenario(name string) *scenario.Scenario {
	sc, ok := e.Set.Scenario(name)
	Expect(ok).To(BeTrue(), "scenario %q not defined", name)

	return sc
}

// DecodeRecord fetches and decodes a resource, failing on anything but 200.
func DecodeRecord(ctx context.Context, c *client.Client, path string, record any) *client.Snapshot {
	snapshot, err := c.Get(ctx, path)
	Expect(err).NotTo(HaveOccurred())
	Expect(snapshot.StatusCode()).To(Equal(200), "GET %s (trace ID: %s): %s", snapshot.URL(), snapshot.TraceID(), snapshot.Body())
	Expect(snapshot.Decode(record)).To(Succeed())

	return snapshot
}

// VerifyResult reports each failure of a scenario as a separate line before
// failing the spec.
func VerifyResult(result *scenario.Result) {
	for _, step := range result.Steps {
		GinkgoWriter.Printf("  %s: GET %s -> %d (%s)\n", step.Name, step.URL, step.StatusCode, step.Duration)
	}

	if result.Status == scenario.StatusSkipped {
		Skip(result.Reason)
	}

	Expect(result.Err()).NotTo(HaveOccurred())
	Expect(result.Status).To(Equal(scenario.StatusPassed))
}

// PrivateFake starts a fake SWAPI for the current spec alone, so it can be
// mutated freely.  The runner shares the environment's fixtures and schema.
func (e *Environment) PrivateFake() (*fake.Server, *scenario.Runner) {
	server := fake.NewServer()
	DeferCleanup(server.Close)

	c, err := client.New(client.WithBaseURL(server.URL()), client.WithTimeout(e.Config.RequestTimeout))
	Expect(err).NotTo(HaveOccurred())

	return server, scenario.NewRunner(c, e.Fixtures, scenario.WithSchemaChecker(e.Checker))
}
