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

// Package nitmetadata reads the embedded "nit_metadata" custom section out
// of a linter module and parses it into a typed descriptor.
package nitmetadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Timmmm/nit/private/nit/nitkind"
	"github.com/Timmmm/nit/private/nit/nitmatch"
	"github.com/Timmmm/nit/private/nit/wasmsection"
)

// SectionName is the custom section the driver looks for.
const SectionName = "nit_metadata"

// ArgBlock is one named, ordered block of arguments. By convention linters
// leave an "extra" block empty for users to fill in via override_args.
type ArgBlock struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// Metadata describes how the driver should invoke a linter module.
type Metadata struct {
	Argv0 string `json:"argv0"`
	// MaxFilenames is the hard upper bound of filenames passed per
	// invocation; 0 means "invoke once with no filename arguments".
	MaxFilenames  uint64          `json:"max_filenames"`
	RequireSerial bool            `json:"require_serial"`
	Args          []ArgBlock      `json:"args"`
	DefaultMatch  nitmatch.Expr   `json:"default_match"`
	Repo          string          `json:"repo"`
}

// Read loads modulePath into memory and parses its nit_metadata section.
func Read(modulePath string) (Metadata, error) {
	module, err := os.ReadFile(modulePath)
	if err != nil {
		return Metadata{}, &nitkind.IoError{Msg: fmt.Sprintf("reading module %s", modulePath), Err: err}
	}
	return Parse(module)
}

// Parse parses the nit_metadata section out of an in-memory module. It
// requires exactly one matching section.
func Parse(module []byte) (Metadata, error) {
	_, contents, err := wasmsection.FindCustomSections(module, SectionName)
	if err != nil {
		return Metadata{}, err
	}
	switch len(contents) {
	case 0:
		return Metadata{}, &nitkind.MetadataError{Msg: "no nit_metadata section found in module"}
	case 1:
		var md Metadata
		if err := json.Unmarshal(contents[0], &md); err != nil {
			return Metadata{}, &nitkind.MetadataError{Msg: "deserializing nit_metadata section", Err: err}
		}
		return md, nil
	default:
		return Metadata{}, &nitkind.MetadataError{Msg: fmt.Sprintf("found %d nit_metadata sections, expected exactly one", len(contents))}
	}
}

// HasMetadata reports whether module contains at least one nit_metadata
// section, without parsing it.
func HasMetadata(module []byte) (bool, error) {
	return wasmsection.HasCustomSection(module, SectionName)
}

// ArgBlockNames returns the declared arg block names, for error messages
// listing what override_args keys are valid.
func ArgBlockNames(md Metadata) []string {
	names := make([]string, len(md.Args))
	for i, b := range md.Args {
		names[i] = b.Name
	}
	return names
}
