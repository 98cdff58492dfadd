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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/swapi-conformance/pkg/swapi"
	"github.com/unikorn-cloud/swapi-conformance/pkg/verify"
	"github.com/unikorn-cloud/swapi-conformance/test/api"
)

var _ = Describe("Resource Records", func() {
	Context("When navigating from a person", func() {
		It("should decode the person, their second film and its first planet", func() {
			// Given: C-3PO
			var person swapi.Person

			api.DecodeRecord(ctx, env.Client, env.Endpoints.GetPerson("2"), &person)
			Expect(person.SkinColor).To(Equal(env.Fixtures["skinColor"]))
			Expect(person.Films).To(HaveLen(6))

			// When: I follow the second film reference
			var film swapi.Film

			snapshot := api.DecodeRecord(ctx, env.Client, person.Films[1], &film)
			Expect(env.Checker.Validate(swapi.KindFilm, mustDocument(snapshot.Document()))).To(Succeed())

			// Then: the film should be well populated
			Expect(len(film.Characters)).To(BeNumerically(">", 1))
			Expect(len(film.Planets)).To(BeNumerically(">", 1))

			// And: the first planet should be Hoth like
			var planet swapi.Planet

			api.DecodeRecord(ctx, env.Client, film.Planets[0], &planet)
			Expect(planet.Gravity).To(Equal(env.Fixtures["gravity"]))
			Expect(planet.Terrain).To(Equal(env.Fixtures["terrain"]))
			Expect(planet.URL).NotTo(BeEmpty())

			GinkgoWriter.Printf("%s -> %s -> %s\n", swapi.Summary(swapi.KindPerson, &person), swapi.Summary(swapi.KindFilm, &film), swapi.Summary(swapi.KindPlanet, &planet))
		})
	})

	Context("When requesting a film that does not exist", func() {
		It("should return 404 Not Found", func() {
			// Given: there are only six films
			// When: I request the seventh
			snapshot, err := env.Client.Get(ctx, env.Endpoints.GetFilm("7"))
			Expect(err).NotTo(HaveOccurred())

			// Then: the request should be rejected
			Expect(verify.AssertStatus(snapshot, http.StatusNotFound)).To(Succeed())
		})
	})
})

func mustDocument(document any, err error) any {
	Expect(err).NotTo(HaveOccurred())

	return document
}
