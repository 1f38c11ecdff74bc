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

package nitengine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/Timmmm/nit/private/nit/nitconfig"
	"github.com/Timmmm/nit/private/nit/nitkind"
	"github.com/Timmmm/nit/private/nit/nitmatch"
	"github.com/Timmmm/nit/private/nit/nitmetadata"
	"github.com/Timmmm/nit/private/nit/nitvcs"
)

// ModuleLocator resolves where a linter's module binary lives, abstracting
// over nitstore so this package doesn't need to know about downloads.
type ModuleLocator interface {
	ModulePath(topLevel string, loc nitconfig.LinterLocation) string
}

// Result is the outcome of running one linter (before diff comparison,
// which the orchestrator layers on top).
type Result struct {
	AllSucceeded bool
	Invocations  []InvocationResult
}

// Run executes linter over runFiles, following the spec's execution-engine
// algorithm: load metadata, compute the effective match, validate override
// args, compose the base argv, batch by max_filenames, and dispatch with
// the declared concurrency policy.
func Run(
	ctx context.Context,
	sandbox *Sandbox,
	locator ModuleLocator,
	topLevel string,
	globalInclude nitmatch.Expr,
	linter nitconfig.Linter,
	runFiles []nitvcs.FileRecord,
) (Result, error) {
	modulePath := locator.ModulePath(topLevel, linter.Location)

	moduleBytes, err := readModule(modulePath)
	if err != nil {
		return Result{}, err
	}

	metadata, err := nitmetadata.Parse(moduleBytes)
	if err != nil {
		return Result{}, err
	}

	if err := validateOverrideArgs(linter, metadata); err != nil {
		return Result{}, err
	}

	linterMatch := metadata.DefaultMatch
	if linter.OverrideMatch != nil {
		linterMatch = *linter.OverrideMatch
	}
	// The config's global include is ANDed with every linter's effective
	// match (spec's Config.Include attribute).
	effectiveMatch := nitmatch.Expr{Kind: nitmatch.KindAnd, List: []nitmatch.Expr{globalInclude, linterMatch}}
	effectiveFiles := nitmatch.MatchingFiles(runFiles, effectiveMatch)

	baseArgv := composeBaseArgv(linter, metadata)

	argvBatches := batchArgv(baseArgv, effectiveFiles, metadata.MaxFilenames)

	compiled, err := sandbox.Compile(ctx, moduleBytes)
	if err != nil {
		return Result{}, err
	}
	defer compiled.Close(ctx)

	return dispatch(ctx, sandbox, compiled, topLevel, argvBatches, metadata.RequireSerial)
}

func readModule(modulePath string) ([]byte, error) {
	b, err := os.ReadFile(modulePath)
	if err != nil {
		return nil, &nitkind.IoError{Msg: fmt.Sprintf("reading module %s", modulePath), Err: err}
	}
	return b, nil
}

// validateOverrideArgs checks every override_args key names a declared arg
// block, per spec.md §4.6 step 4.
func validateOverrideArgs(linter nitconfig.Linter, metadata nitmetadata.Metadata) error {
	valid := make(map[string]bool, len(metadata.Args))
	for _, block := range metadata.Args {
		valid[block.Name] = true
	}
	for name := range linter.OverrideArgs {
		if !valid[name] {
			return &nitkind.ConfigError{Msg: fmt.Sprintf(
				"linter %q: override_args key %q is not a declared arg block (valid names: %v)",
				linter.Name, name, nitmetadata.ArgBlockNames(metadata),
			)}
		}
	}
	return nil
}

// composeBaseArgv builds [argv0, ...each arg block's args, user overrides
// substituted in by block name], per spec.md §4.6 step 5.
func composeBaseArgv(linter nitconfig.Linter, metadata nitmetadata.Metadata) []string {
	argv := []string{metadata.Argv0}
	for _, block := range metadata.Args {
		args := block.Args
		if override, ok := linter.OverrideArgs[block.Name]; ok {
			args = override
		}
		argv = append(argv, args...)
	}
	return argv
}

// batchArgv partitions the effective file set's UTF-8 path strings into
// chunks of size <= maxFilenames (preserving order), each appended to
// baseArgv to form one invocation's argv. max_filenames == 0 means exactly
// one invocation with no filename arguments.
//
// Files whose path is not valid UTF-8 cannot be represented as an argv
// string and are dropped from batching. nitmatch never lets such paths
// match a Glob or Regex expression, but expressions that don't look at
// the path (Type, ShebangRegex, Bool, or a Not of a path test) can still
// select one.
func batchArgv(baseArgv []string, files []nitvcs.FileRecord, maxFilenames uint64) [][]string {
	if maxFilenames == 0 {
		return [][]string{append([]string{}, baseArgv...)}
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if p, ok := f.PathStr(); ok {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return [][]string{append([]string{}, baseArgv...)}
	}

	var batches [][]string
	for i := 0; i < len(paths); i += int(maxFilenames) {
		end := i + int(maxFilenames)
		if end > len(paths) {
			end = len(paths)
		}
		argv := append([]string{}, baseArgv...)
		argv = append(argv, paths[i:end]...)
		batches = append(batches, argv)
	}
	return batches
}

// dispatch runs one invocation per argv batch, serially if requireSerial
// else bounded by the host's available parallelism (fallback 4). All
// invocations run to completion regardless of individual failure; the
// linter's overall result is the AND of all invocation results.
func dispatch(
	ctx context.Context,
	sandbox *Sandbox,
	compiled *CompiledModule,
	topLevel string,
	argvBatches [][]string,
	requireSerial bool,
) (Result, error) {
	concurrency := 1
	if !requireSerial {
		concurrency = runtime.GOMAXPROCS(0)
		if concurrency < 1 {
			concurrency = 4
		}
	}

	results := make([]InvocationResult, len(argvBatches))
	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var combined error

	for i, argv := range argvBatches {
		i, argv := i, argv
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				mu.Unlock()
				return
			}
			defer sem.Release(1)
			result, err := sandbox.Invoke(ctx, compiled, topLevel, argv)
			if err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				mu.Unlock()
				return
			}
			results[i] = result
		}()
	}
	wg.Wait()

	if combined != nil {
		return Result{}, combined
	}

	allSucceeded := true
	for _, r := range results {
		if !r.Succeeded {
			allSucceeded = false
		}
	}
	return Result{AllSucceeded: allSucceeded, Invocations: results}, nil
}
