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

// Package api provides integration test utilities for SWAPI.
//
// # Targets
//
// By default the suites start the in-process fake SWAPI from test/fake and
// run every scenario against it.  Setting API_BASE_URL, either in the
// environment or in test/.env, points them at a real deployment instead e.g.
// https://swapi.dev/api/.  Specs that provoke failures always start a
// private fake, whatever the target.
//
// # Configuration
//
// Configuration is shared with the swapi-conformance command, see the options
// package, with the addition of TEST_TIMEOUT and DEBUG_LOGGING.  The suites
// always run the built in scenario set, SCENARIO_FILE is ignored.
package api
