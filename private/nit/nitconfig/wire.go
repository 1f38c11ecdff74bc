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

package nitconfig

import (
	"fmt"

	"github.com/Timmmm/nit/private/nit/nitmatch"
)

type wireConfig struct {
	Include *nitmatch.Expr `json:"include"`
	Linters []wireLinter   `json:"linters"`
}

type wireLinter struct {
	Name         string              `json:"name"`
	Location     wireLocation        `json:"location"`
	OverrideMatch *nitmatch.Expr     `json:"override_match"`
	OverrideArgs  map[string][]string `json:"override_args"`
}

// wireLocation mirrors the externally tagged Rust enum:
// {"remote": {"url": ..., "hash": ...}} or {"local": "path/to.wasm"}.
type wireLocation struct {
	Remote *RemoteLocation `json:"remote,omitempty"`
	Local  *string         `json:"local,omitempty"`
}

func (w wireConfig) toConfig() (Config, error) {
	if w.Include == nil {
		return Config{}, fmt.Errorf(`config is missing required "include" match expression`)
	}

	linters := make([]Linter, len(w.Linters))
	for i, wl := range w.Linters {
		loc, err := wl.Location.toLocation()
		if err != nil {
			return Config{}, fmt.Errorf("linter %q: %w", wl.Name, err)
		}
		linters[i] = Linter{
			Name:          wl.Name,
			Location:      loc,
			OverrideMatch: wl.OverrideMatch,
			OverrideArgs:  wl.OverrideArgs,
		}
	}
	return Config{Include: *w.Include, Linters: linters}, nil
}

func (w wireLocation) toLocation() (LinterLocation, error) {
	switch {
	case w.Remote != nil && w.Local != nil:
		return LinterLocation{}, fmt.Errorf("location has both remote and local set")
	case w.Remote != nil:
		return LinterLocation{Remote: w.Remote}, nil
	case w.Local != nil:
		return LinterLocation{Local: w.Local}, nil
	default:
		return LinterLocation{}, fmt.Errorf("location has neither remote nor local set")
	}
}
