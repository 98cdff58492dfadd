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

package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/unikorn-cloud/swapi-conformance/pkg/options"
)

type TestConfig struct {
	// Options are shared with the command line tool.
	options.Options

	// Live is set when API_BASE_URL points the suites at a real
	// deployment, otherwise they run against the in-process fake.
	Live         bool
	TestTimeout  time.Duration
	DebugLogging bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
func LoadTestConfig(ctx context.Context) (*TestConfig, error) {
	loadEnvFile()

	o, err := options.Load(ctx)
	if err != nil {
		return nil, err
	}

	config := &TestConfig{
		Options:      *o,
		Live:         os.Getenv("API_BASE_URL") != "",
		TestTimeout:  getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		DebugLogging: getBoolWithDefault("DEBUG_LOGGING", false),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// Not having a .env file is normal, the suites run against the fake.
		return
	}

	// Values already in the environment are never overwritten.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
