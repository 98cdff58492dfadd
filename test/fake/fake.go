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

// Package fake provides an in-process SWAPI with just enough data to run
// the canonical scenarios.  Individual resources can be mutated to provoke
// failures.
package fake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Resource is a single SWAPI entity.  String values containing the
// placeholder "{base}" are rewritten to the server's base URL when served.
type Resource map[string]any

// Server is a fake SWAPI.
type Server struct {
	server *httptest.Server

	lock      sync.Mutex
	resources map[string]map[string]Resource
	requests  []string
	volatile  map[string]bool
}

// NewServer starts a fake SWAPI seeded with the default data set.
func NewServer() *Server {
	s := &Server{
		resources: seed(),
		volatile:  map[string]bool{},
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.record)
	router.Get("/api/{kind}/{id}/", s.get)

	s.server = httptest.NewServer(router)

	return s
}

// Close shuts down the server.
func (s *Server) Close() {
	s.server.Close()
}

// URL returns the API base URL with a trailing slash, as SWAPI publishes it.
func (s *Server) URL() string {
	return s.server.URL + "/api/"
}

// Mutate allows a test to modify a resource in place.
func (s *Server) Mutate(kind, id string, mutator func(Resource)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	resource, ok := s.resources[kind][id]
	if !ok {
		resource = Resource{}

		if s.resources[kind] == nil {
			s.resources[kind] = map[string]Resource{}
		}

		s.resources[kind][id] = resource
	}

	mutator(resource)
}

// Delete removes a resource so it is reported as not found.
func (s *Server) Delete(kind, id string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.resources[kind], id)
}

// MakeVolatile makes a resource add a request counter to every response
// so successive fetches are never identical.
func (s *Server) MakeVolatile(kind, id string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.volatile[kind+"/"+id] = true
}

// Requests returns the paths requested so far, in order.
func (s *Server) Requests() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]string(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.requests = append(s.requests, r.URL.Path)
		s.lock.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	s.lock.Lock()
	resource, ok := s.resources[kind][id]

	var body []byte

	if ok {
		out := rewrite(resource, "http://"+r.Host+"/api/")

		if s.volatile[kind+"/"+id] {
			out["request_count"] = len(s.requests)
		}

		body, _ = json.Marshal(out)
	}
	s.lock.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found"}`))

		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func rewrite(resource Resource, base string) map[string]any {
	out := make(map[string]any, len(resource))

	for k, v := range resource {
		out[k] = rewriteValue(v, base)
	}

	return out
}

func rewriteValue(v any, base string) any {
	switch t := v.(type) {
	case string:
		return strings.ReplaceAll(t, "{base}", base)
	case []string:
		list := make([]string, len(t))
		for i := range t {
			list[i] = strings.ReplaceAll(t[i], "{base}", base)
		}

		return list
	case []any:
		list := make([]any, len(t))
		for i := range t {
			list[i] = rewriteValue(t[i], base)
		}

		return list
	}

	return v
}
