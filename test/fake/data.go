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

package fake

func refs(kind string, ids ...string) []string {
	out := make([]string, len(ids))

	for i, id := range ids {
		out[i] = "{base}" + kind + "/" + id + "/"
	}

	return out
}

//nolint:maintidx
func seed() map[string]map[string]Resource {
	return map[string]map[string]Resource{
		"people": {
			"2": {
				"name":       "C-3PO",
				"height":     "167",
				"mass":       "75",
				"hair_color": "n/a",
				"skin_color": "gold",
				"eye_color":  "yellow",
				"birth_year": "112BBY",
				"gender":     "n/a",
				"homeworld":  "{base}planets/1/",
				"films":      refs("films", "1", "2", "3", "4", "5", "6"),
				"species":    refs("species", "2"),
				"vehicles":   []string{},
				"starships":  []string{},
				"created":    "2014-12-10T15:10:51.357000Z",
				"edited":     "2014-12-20T21:17:50.309000Z",
				"url":        "{base}people/2/",
			},
		},
		"films": {
			"2": {
				"title":         "The Empire Strikes Back",
				"episode_id":    5,
				"opening_crawl": "It is a dark time for the Rebellion.",
				"director":      "Irvin Kershner",
				"producer":      "Gary Kurtz, Rick McCallum",
				"release_date":  "1980-05-17",
				"characters":    refs("people", "1", "2", "3", "4", "5", "10", "13", "14", "18", "20"),
				"planets":       refs("planets", "4", "5", "6", "27"),
				"starships":     refs("starships", "3", "10", "11", "12", "15", "17"),
				"vehicles":      refs("vehicles", "8", "14", "16", "18", "19", "20"),
				"species":       refs("species", "1", "2", "3", "6", "7"),
				"created":       "2014-12-12T11:26:24.656000Z",
				"edited":        "2014-12-15T13:07:53.386000Z",
				"url":           "{base}films/2/",
			},
		},
		"planets": {
			"4": {
				"name":            "Hoth",
				"rotation_period": "23",
				"orbital_period":  "549",
				"diameter":        "7200",
				"climate":         "frozen",
				"gravity":         "1.1 standard",
				"terrain":         "tundra, ice caves, mountain ranges",
				"surface_water":   "100",
				"population":      "unknown",
				"residents":       []string{},
				"films":           refs("films", "2"),
				"created":         "2014-12-10T11:39:13.934000Z",
				"edited":          "2014-12-20T20:58:18.423000Z",
				"url":             "{base}planets/4/",
			},
		},
	}
}
