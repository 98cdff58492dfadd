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

package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"k8s.io/client-go/util/jsonpath"
)

// TestMissingIndexErrors fails if client-go changes the wording of the
// errors that are mapped to absent values.
func TestMissingIndexErrors(t *testing.T) {
	t.Parallel()

	var doc any

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hoth","films":["a","b"]}`), &doc))

	tests := []struct {
		template string
		fragment string
	}{
		{template: "{.films[2]}", fragment: "out of bounds"},
		{template: "{.name[0]}", fragment: "is not array or slice"},
	}

	require.Len(t, missingIndexErrors, len(tests))

	for _, test := range tests {
		j := jsonpath.New(test.template)
		j.AllowMissingKeys(true)

		require.NoError(t, j.Parse(test.template))

		_, err := j.FindResults(doc)
		require.Error(t, err, test.template)
		require.Contains(t, err.Error(), test.fragment, test.template)
		require.Contains(t, missingIndexErrors, test.fragment)
		require.True(t, isMissingIndex(err), test.template)
	}
}
