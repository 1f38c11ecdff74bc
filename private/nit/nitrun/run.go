// Copyright 2026 The Nit Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package nitrun is the orchestrator: it walks a config's linters in
// declared order, runs each through nitengine, and determines pass/fail
// by comparing the working-tree diff before and after each run.
package nitrun

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/Timmmm/nit/private/nit/nitconfig"
	"github.com/Timmmm/nit/private/nit/nitengine"
	"github.com/Timmmm/nit/private/nit/nitvcs"
)

// LinterOutcome is the recorded result of running one configured linter.
type LinterOutcome struct {
	Name   string
	Passed bool
	// Err is set when the linter's engine run itself failed fatally
	// (a ConfigError, MetadataError, SandboxError, etc.), as opposed to
	// merely failing (non-zero exit or a diff mismatch).
	Err error
}

// Report is the outcome of a full run across every configured linter.
type Report struct {
	Outcomes []LinterOutcome
}

// Passed reports whether every linter in the report passed and none
// errored fatally.
func (r Report) Passed() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil || !o.Passed {
			return false
		}
	}
	return true
}

// Run executes cfg.Linters in declared order against vcs, stopping the
// whole run only on a fatal engine error (per the driver's propagation
// policy); a linter that merely fails is recorded and the run continues
// with the next linter.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	sandbox *nitengine.Sandbox,
	locator nitengine.ModuleLocator,
	vcs nitvcs.VCS,
	topLevel string,
	cfg nitconfig.Config,
	runFiles []nitvcs.FileRecord,
) (Report, error) {
	report := Report{Outcomes: make([]LinterOutcome, 0, len(cfg.Linters))}

	for _, linter := range cfg.Linters {
		logger.Info("running linter", "name", linter.Name)

		preDiff, err := vcs.DiffUnstaged(ctx)
		if err != nil {
			return report, err
		}

		result, err := nitengine.Run(ctx, sandbox, locator, topLevel, cfg.Include, linter, runFiles)
		if err != nil {
			// A fatal engine error aborts the whole run, per the
			// driver's propagation policy (ConfigError, MetadataError,
			// SandboxError, IoError are not recoverable).
			report.Outcomes = append(report.Outcomes, LinterOutcome{Name: linter.Name, Err: err})
			return report, err
		}

		postDiff, err := vcs.DiffUnstaged(ctx)
		if err != nil {
			return report, err
		}

		passed := result.AllSucceeded && bytes.Equal(preDiff, postDiff)
		if !passed {
			logger.Warn("linter failed", "name", linter.Name, "all_succeeded", result.AllSucceeded, "modified_files", !bytes.Equal(preDiff, postDiff))
		}
		report.Outcomes = append(report.Outcomes, LinterOutcome{Name: linter.Name, Passed: passed})
	}

	return report, nil
}
