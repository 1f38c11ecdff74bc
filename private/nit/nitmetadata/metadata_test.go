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

package nitmetadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmmm/nit/private/nit/nitkind"
	"github.com/Timmmm/nit/private/nit/nitmatch"
	"github.com/Timmmm/nit/private/nit/wasmsection"
)

var minimalHeader = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

func moduleWithMetadata(t *testing.T, md Metadata) []byte {
	t.Helper()
	content, err := json.Marshal(md)
	require.NoError(t, err)
	return wasmsection.WriteCustomSection(minimalHeader, SectionName, content)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()
	md := Metadata{
		Argv0:         "whitespace-linter",
		MaxFilenames:  64,
		RequireSerial: false,
		Args: []ArgBlock{
			{Name: "flags", Args: []string{"--fix"}},
			{Name: "extra", Args: nil},
		},
		DefaultMatch: nitmatch.Bool(true),
		Repo:         "github.com/example/whitespace-linter",
	}
	module := moduleWithMetadata(t, md)

	parsed, err := Parse(module)
	require.NoError(t, err)
	assert.Equal(t, md.Argv0, parsed.Argv0)
	assert.Equal(t, md.MaxFilenames, parsed.MaxFilenames)
	assert.Equal(t, md.Args, parsed.Args)
	assert.Equal(t, md.Repo, parsed.Repo)
}

func TestParseMissingSectionIsMetadataError(t *testing.T) {
	t.Parallel()
	_, err := Parse(minimalHeader)
	var mdErr *nitkind.MetadataError
	require.ErrorAs(t, err, &mdErr)
}

func TestParseDuplicateSectionIsMetadataError(t *testing.T) {
	t.Parallel()
	module := moduleWithMetadata(t, Metadata{Argv0: "a"})
	module = wasmsection.WriteCustomSection(module, SectionName, []byte(`{"argv0":"b"}`))
	_, err := Parse(module)
	var mdErr *nitkind.MetadataError
	require.ErrorAs(t, err, &mdErr)
}

func TestHasMetadata(t *testing.T) {
	t.Parallel()
	has, err := HasMetadata(minimalHeader)
	require.NoError(t, err)
	assert.False(t, has)

	module := moduleWithMetadata(t, Metadata{Argv0: "a"})
	has, err = HasMetadata(module)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestReadFromDisk(t *testing.T) {
	t.Parallel()
	md := Metadata{Argv0: "linter", MaxFilenames: 1}
	module := moduleWithMetadata(t, md)

	path := filepath.Join(t.TempDir(), "linter.wasm")
	require.NoError(t, os.WriteFile(path, module, 0o644))

	parsed, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, md.Argv0, parsed.Argv0)
}

func TestArgBlockNames(t *testing.T) {
	t.Parallel()
	md := Metadata{Args: []ArgBlock{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, []string{"a", "b"}, ArgBlockNames(md))
}
