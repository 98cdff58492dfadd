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

package swapi

import (
	"fmt"
	"net/url"
)

const (
	KindPerson = "Person"
	KindFilm   = "Film"
	KindPlanet = "Planet"
)

// Endpoints contains all API endpoint patterns, relative to the API root.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

func (e *Endpoints) GetPerson(id string) string {
	return fmt.Sprintf("people/%s/", url.PathEscape(id))
}

func (e *Endpoints) GetFilm(id string) string {
	return fmt.Sprintf("films/%s/", url.PathEscape(id))
}

func (e *Endpoints) GetPlanet(id string) string {
	return fmt.Sprintf("planets/%s/", url.PathEscape(id))
}
