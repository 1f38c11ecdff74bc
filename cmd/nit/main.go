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

// Command nit is the hook driver: given a working directory inside a git
// repository, it loads the repository's config, fetches any remote linter
// modules, and runs each configured linter over the selected file set.
//
// Subcommand dispatch (clean, install, uninstall, sample-config,
// show-metadata, set-metadata) is out of scope; this binary only runs the
// configured linters.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Timmmm/nit/private/nit/nitapp"
	"github.com/Timmmm/nit/private/nit/nitconfig"
	"github.com/Timmmm/nit/private/nit/nitengine"
	"github.com/Timmmm/nit/private/nit/nitlog"
	"github.com/Timmmm/nit/private/nit/nitrun"
	"github.com/Timmmm/nit/private/nit/nitstore"
	"github.com/Timmmm/nit/private/nit/nitvcs"
)

func main() {
	os.Exit(mainRun(os.Args[1:]))
}

func mainRun(args []string) int {
	var configPath string
	var mode string
	var quiet bool
	exitCode := 1

	rootCmd := &cobra.Command{
		Use:           "nit [files...]",
		Short:         "Run configured linters over repository files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, fileArgs []string) error {
			passed, err := execute(cmd.Context(), configPath, mode, quiet, fileArgs)
			if err != nil {
				return err
			}
			if passed {
				exitCode = 0
			} else {
				exitCode = 1
			}
			return nil
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "explicit path to the config file")
	rootCmd.Flags().StringVar(&mode, "mode", "staged", "which files to lint: staged|tree|files")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "lower default log verbosity")
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// execute wires the driver's collaborators together and runs one pass:
// open the repository, load config, fetch remote linter modules, select
// the file set for mode, and run the orchestrator.
func execute(ctx context.Context, configPath, mode string, quiet bool, fileArgs []string) (bool, error) {
	env := nitapp.OSEnvContainer{}
	logger := nitlog.New(os.Stderr, nitlog.LevelFromEnv(env, quiet), nitlog.StyleFromEnv(env))

	cwd, err := os.Getwd()
	if err != nil {
		return false, fmt.Errorf("getting working directory: %w", err)
	}

	vcs, err := nitvcs.Open(cwd)
	if err != nil {
		return false, err
	}
	topLevel, err := vcs.TopLevel()
	if err != nil {
		return false, err
	}

	cfgPath, err := nitconfig.Find(topLevel, configPath)
	if err != nil {
		return false, err
	}
	cfg, err := nitconfig.Load(cfgPath)
	if err != nil {
		return false, err
	}

	cacheDir, err := nitstore.ResolveCacheDir(env)
	if err != nil {
		return false, err
	}

	store := nitstore.New(filepath.Join(cacheDir, "modules"))
	store.Logger = logger
	if err := store.FetchAll(ctx, cfg.Linters); err != nil {
		return false, err
	}

	runFiles, err := selectRunFiles(ctx, vcs, mode, topLevel, fileArgs)
	if err != nil {
		return false, err
	}

	sandbox, err := nitengine.NewSandbox(ctx, filepath.Join(cacheDir, "compiled"))
	if err != nil {
		return false, err
	}
	defer sandbox.Close(ctx)

	report, err := nitrun.Run(ctx, logger, sandbox, store, vcs, topLevel, cfg, runFiles)
	if err != nil {
		return false, err
	}

	for _, outcome := range report.Outcomes {
		status := "pass"
		if !outcome.Passed {
			status = "fail"
		}
		logger.Info("linter result", "name", outcome.Name, "status", status)
	}

	return report.Passed(), nil
}

// selectRunFiles produces the FileRecord set for the driver's --mode flag:
// "staged" (the index), "tree" (HEAD), or "files" (an explicit list on the
// command line, classified directly off the working directory).
func selectRunFiles(ctx context.Context, vcs nitvcs.VCS, mode, topLevel string, fileArgs []string) ([]nitvcs.FileRecord, error) {
	switch mode {
	case "", "staged":
		return vcs.StagedFiles(ctx)
	case "tree":
		return vcs.TreeFiles(ctx, "HEAD")
	case "files":
		return classifyExplicitFiles(topLevel, fileArgs)
	default:
		return nil, fmt.Errorf("unknown --mode %q (want staged, tree, or files)", mode)
	}
}

func classifyExplicitFiles(topLevel string, paths []string) ([]nitvcs.FileRecord, error) {
	records := make([]nitvcs.FileRecord, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(topLevel, p)
		if err != nil {
			rel = p
		}
		full := filepath.Join(topLevel, rel)

		info, err := os.Lstat(full)
		if err != nil {
			return nil, fmt.Errorf("stating %s: %w", p, err)
		}

		if info.Mode()&os.ModeSymlink != 0 {
			records = append(records, nitvcs.ClassifyFile([]byte(rel), nitvcs.ModeSymlink, nil))
			continue
		}

		content, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		gitMode := "100644"
		if info.Mode()&0o111 != 0 {
			gitMode = nitvcs.ModeExecutable
		}
		records = append(records, nitvcs.ClassifyFile([]byte(rel), gitMode, content))
	}
	return records, nil
}
