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

// Package options gathers run configuration from the environment, an
// optional .env file and command line flags, in increasing order of
// precedence.
package options

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/swapi-conformance/pkg/constants"
)

var (
	// ErrInvalidOptions is raised when the configuration is unusable.
	ErrInvalidOptions = errors.New("invalid options")
)

// Options configures a conformance run.
type Options struct {
	// BaseURL is the API root all relative references are resolved against.
	BaseURL string `env:"API_BASE_URL"`
	// RequestTimeout bounds every individual request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	// LogResponses logs every response body at debug level.
	LogResponses bool `env:"LOG_RESPONSES,default=false"`
	// ScenarioFile replaces the built in scenario set.
	ScenarioFile string `env:"SCENARIO_FILE"`
	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string `env:"METRICS_FILE"`
	// Fixtures override the scenario set's fixture values.
	Fixtures map[string]string
}

// Load reads options from the process environment, falling back to any
// values in the given .env files.  Missing .env files are ignored, the
// process environment always wins.
func Load(ctx context.Context, envFiles ...string) (*Options, error) {
	dotenv := map[string]string{}

	for _, path := range envFiles {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidOptions, path, err)
		}

		for k, v := range values {
			if _, ok := dotenv[k]; !ok {
				dotenv[k] = v
			}
		}
	}

	return LoadWith(ctx, envconfig.MultiLookuper(envconfig.OsLookuper(), envconfig.MapLookuper(dotenv)))
}

// LoadWith reads options using an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Options, error) {
	o := &Options{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   o,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if o.BaseURL == "" {
		o.BaseURL = constants.DefaultBaseURL
	}

	if o.Fixtures == nil {
		o.Fixtures = map[string]string{}
	}

	return o, nil
}

// AddFlags registers flags, the current values are used as defaults so
// anything set in the environment shows up in --help.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	if o.Fixtures == nil {
		o.Fixtures = map[string]string{}
	}

	f.StringVar(&o.BaseURL, "base-url", o.BaseURL, "API root URL, relative references are resolved against it")
	f.DurationVar(&o.RequestTimeout, "request-timeout", o.RequestTimeout, "Timeout for each individual request")
	f.BoolVar(&o.LogResponses, "log-responses", o.LogResponses, "Log response bodies at debug level")
	f.StringVar(&o.ScenarioFile, "scenario-file", o.ScenarioFile, "YAML scenario set to run instead of the built in one")
	f.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write Prometheus metrics to this file after the run")
	f.Var(&fixtureFlag{fixtures: o.Fixtures}, "fixture", "Override a fixture value as name=value, may be repeated")
}

// Validate checks the options are usable.
func (o *Options) Validate() error {
	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base URL: %w", ErrInvalidOptions, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: base URL %q must be http or https", ErrInvalidOptions, o.BaseURL)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: base URL %q has no host", ErrInvalidOptions, o.BaseURL)
	}

	if o.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %v", ErrInvalidOptions, o.RequestTimeout)
	}

	return nil
}

// fixtureFlag accumulates name=value pairs.  Values are taken verbatim so
// they may contain commas.
type fixtureFlag struct {
	fixtures map[string]string
}

var _ pflag.Value = &fixtureFlag{}

func (f *fixtureFlag) String() string {
	if f.fixtures == nil {
		return ""
	}

	pairs := make([]string, 0, len(f.fixtures))

	for k, v := range f.fixtures {
		pairs = append(pairs, k+"="+v)
	}

	sort.Strings(pairs)

	return "[" + strings.Join(pairs, " ") + "]"
}

func (f *fixtureFlag) Set(value string) error {
	name, v, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("%w: fixture %q is not of the form name=value", ErrInvalidOptions, value)
	}

	f.fixtures[name] = v

	return nil
}

func (f *fixtureFlag) Type() string {
	return "name=value"
}
