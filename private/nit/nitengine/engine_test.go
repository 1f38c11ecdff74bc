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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmmm/nit/private/nit/nitconfig"
	"github.com/Timmmm/nit/private/nit/nitmetadata"
	"github.com/Timmmm/nit/private/nit/nitvcs"
)

func TestComposeBaseArgvUsesOverrideWhenPresent(t *testing.T) {
	t.Parallel()
	metadata := nitmetadata.Metadata{
		Argv0: "whitespace-linter",
		Args: []nitmetadata.ArgBlock{
			{Name: "flags", Args: []string{"--fix"}},
			{Name: "extra", Args: nil},
		},
	}
	linter := nitconfig.Linter{
		OverrideArgs: map[string][]string{"extra": {"--verbose"}},
	}
	argv := composeBaseArgv(linter, metadata)
	assert.Equal(t, []string{"whitespace-linter", "--fix", "--verbose"}, argv)
}

func TestValidateOverrideArgsRejectsUnknownBlock(t *testing.T) {
	t.Parallel()
	metadata := nitmetadata.Metadata{Args: []nitmetadata.ArgBlock{{Name: "flags"}}}
	linter := nitconfig.Linter{Name: "x", OverrideArgs: map[string][]string{"nope": {"a"}}}
	err := validateOverrideArgs(linter, metadata)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestValidateOverrideArgsAcceptsDeclaredBlock(t *testing.T) {
	t.Parallel()
	metadata := nitmetadata.Metadata{Args: []nitmetadata.ArgBlock{{Name: "flags"}}}
	linter := nitconfig.Linter{OverrideArgs: map[string][]string{"flags": {"a"}}}
	assert.NoError(t, validateOverrideArgs(linter, metadata))
}

func TestBatchArgvZeroMaxFilenamesIsSingleInvocation(t *testing.T) {
	t.Parallel()
	files := []nitvcs.FileRecord{
		{Path: []byte("a.go")},
		{Path: []byte("b.go")},
	}
	batches := batchArgv([]string{"lint"}, files, 0)
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"lint"}, batches[0])
}

func TestBatchArgvPartitionsPreservingOrder(t *testing.T) {
	t.Parallel()
	files := []nitvcs.FileRecord{
		{Path: []byte("a.go")},
		{Path: []byte("b.go")},
		{Path: []byte("c.go")},
	}
	batches := batchArgv([]string{"lint"}, files, 2)
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"lint", "a.go", "b.go"}, batches[0])
	assert.Equal(t, []string{"lint", "c.go"}, batches[1])
}

func TestBatchArgvCompletenessEqualsFullList(t *testing.T) {
	t.Parallel()
	files := []nitvcs.FileRecord{
		{Path: []byte("a.go")},
		{Path: []byte("b.go")},
		{Path: []byte("c.go")},
		{Path: []byte("d.go")},
		{Path: []byte("e.go")},
	}
	batches := batchArgv([]string{"lint"}, files, 2)
	var reassembled []string
	for _, b := range batches {
		reassembled = append(reassembled, b[1:]...)
	}
	assert.Equal(t, []string{"a.go", "b.go", "c.go", "d.go", "e.go"}, reassembled)
}

func TestBatchArgvSkipsNonUTF8Paths(t *testing.T) {
	t.Parallel()
	files := []nitvcs.FileRecord{
		{Path: []byte("a.go")},
		{Path: []byte{0xff, 0xfe}},
	}
	batches := batchArgv([]string{"lint"}, files, 10)
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"lint", "a.go"}, batches[0])
}
