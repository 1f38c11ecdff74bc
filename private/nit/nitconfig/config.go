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

// Package nitconfig discovers and decodes the driver's top-level config
// file.
package nitconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flynn/json5"

	"github.com/Timmmm/nit/private/nit/nitkind"
	"github.com/Timmmm/nit/private/nit/nitmatch"
)

// candidateNames are tried, in order, at the repository top level when no
// explicit config path is given.
var candidateNames = []string{".nit.json5", ".nit.jsonc", ".nit.json"}

// RemoteLocation names a linter module to download.
type RemoteLocation struct {
	URL  string `json:"url"`
	Hash string `json:"hash"`
}

// LinterLocation is either a RemoteLocation or a repo-relative local path.
// Exactly one of Remote/Local is set, mirroring the tagged-union shape of
// the source config schema ({"remote": {...}} or {"local": "path"}).
type LinterLocation struct {
	Remote *RemoteLocation
	Local  *string
}

// Linter is one user-declared linter entry.
type Linter struct {
	Name         string
	Location     LinterLocation
	OverrideMatch *nitmatch.Expr
	OverrideArgs  map[string][]string
}

// Config is the top-level, fully decoded configuration.
type Config struct {
	Include nitmatch.Expr
	Linters []Linter
}

// Find locates the config file to use: explicitPath if non-empty, else the
// first of candidateNames that exists directly under topLevel.
func Find(topLevel, explicitPath string) (string, error) {
	if explicitPath != "" {
		return explicitPath, nil
	}
	for _, name := range candidateNames {
		candidate := filepath.Join(topLevel, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", &nitkind.ConfigError{Msg: fmt.Sprintf("no config file found (tried %v under %s)", candidateNames, topLevel)}
}

// Load reads and decodes the config file at path.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &nitkind.IoError{Msg: fmt.Sprintf("reading config %s", path), Err: err}
	}

	var wire wireConfig
	if err := json5.Unmarshal(content, &wire); err != nil {
		return Config{}, &nitkind.ConfigError{Msg: fmt.Sprintf("decoding config %s", path), Err: err}
	}

	cfg, err := wire.toConfig()
	if err != nil {
		return Config{}, &nitkind.ConfigError{Msg: fmt.Sprintf("validating config %s", path), Err: err}
	}
	return cfg, nil
}
