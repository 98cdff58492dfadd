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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/swapi-conformance/pkg/client"
	"github.com/unikorn-cloud/swapi-conformance/pkg/constants"
	"github.com/unikorn-cloud/swapi-conformance/pkg/metrics"
	"github.com/unikorn-cloud/swapi-conformance/pkg/options"
	"github.com/unikorn-cloud/swapi-conformance/pkg/scenario"
	"github.com/unikorn-cloud/swapi-conformance/pkg/schema"
	"github.com/unikorn-cloud/swapi-conformance/pkg/verify"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const (
	exitPassed = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(cr.SetupSignalHandler(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes a conformance run and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := options.Load(ctx, ".env")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	flags := pflag.NewFlagSet(constants.Application, pflag.ContinueOnError)
	flags.SetOutput(stderr)

	zapOptions := zap.Options{}

	goflags := flag.NewFlagSet("zap", flag.ContinueOnError)
	zapOptions.BindFlags(goflags)
	flags.AddGoFlagSet(goflags)

	o.AddFlags(flags)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitPassed
		}

		return exitConfig
	}

	if err := o.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	logger := zap.New(zap.UseFlagOptions(&zapOptions), zap.WriteTo(stderr)).WithName("swapi-conformance")
	logger.Info("conformance run starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision, "baseURL", o.BaseURL)

	ctx = log.IntoContext(ctx, logger)

	runner, set, err := setup(ctx, o)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	report := runner.Run(ctx, set)

	printReport(stdout, report)

	if o.MetricsFile != "" {
		if err := metrics.WriteFile(o.MetricsFile, report); err != nil {
			logger.Error(err, "failed to write metrics")
		}
	}

	if !report.Passed() {
		return exitFailed
	}

	return exitPassed
}

// setup turns options into a runner and the scenarios it should run.
func setup(ctx context.Context, o *options.Options) (*scenario.Runner, *scenario.Set, error) {
	set, err := loadScenarios(o)
	if err != nil {
		return nil, nil, err
	}

	set, err = set.Override(o.Fixtures)
	if err != nil {
		return nil, nil, err
	}

	checker, err := schema.New(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := set.CheckSchemas(checker); err != nil {
		return nil, nil, err
	}

	c, err := client.New(
		client.WithBaseURL(o.BaseURL),
		client.WithTimeout(o.RequestTimeout),
		client.WithLogResponses(o.LogResponses),
	)
	if err != nil {
		return nil, nil, err
	}

	return scenario.NewRunner(c, set.Fixtures, scenario.WithSchemaChecker(checker)), set, nil
}

func loadScenarios(o *options.Options) (*scenario.Set, error) {
	if o.ScenarioFile == "" {
		return scenario.Default()
	}

	return scenario.LoadFile(o.ScenarioFile)
}

func printReport(w io.Writer, report *scenario.Report) {
	for i := range report.Results {
		result := &report.Results[i]

		switch result.Status {
		case scenario.StatusPassed:
			fmt.Fprintf(w, "PASS %s (%s)\n", result.Name, result.Duration.Round(time.Millisecond))
		case scenario.StatusSkipped:
			fmt.Fprintf(w, "SKIP %s: %s\n", result.Name, result.Reason)
		case scenario.StatusFailed:
			fmt.Fprintf(w, "FAIL %s (%s)\n", result.Name, result.Duration.Round(time.Millisecond))

			for _, failure := range result.Failures {
				fmt.Fprintf(w, "    %s: %v\n", verify.Kind(failure), failure)
			}
		}
	}

	if err := report.Err(); err != nil {
		var aggregate utilerrors.Aggregate
		if errors.As(err, &aggregate) {
			fmt.Fprintf(w, "%d failures\n", len(aggregate.Errors()))
		}
	}

	fmt.Fprintln(w, report.Summary())
}
