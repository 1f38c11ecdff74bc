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

package wasmsection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var minimalHeader = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

func TestWriteThenFindRoundTrip(t *testing.T) {
	t.Parallel()
	content := []byte{0x11, 0x22}
	withSection := WriteCustomSection(minimalHeader, "k", content)

	ranges, contents, err := FindCustomSections(withSection, "k")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, content, contents[0])

	require.Len(t, ranges, 1)
	// tag(1) + varint(len=4: 1 name-len byte + 1 name byte + 2 content bytes) + body(4)
	wantLen := 1 + 1 + 4
	assert.Equal(t, wantLen, ranges[0].End-ranges[0].Start)
	assert.Equal(t, withSection[ranges[0].Start:ranges[0].End], ranges[0].Slice(withSection))
}

func TestFindPreservesOtherSections(t *testing.T) {
	t.Parallel()
	withA := WriteCustomSection(minimalHeader, "a", []byte("hello"))
	withBoth := WriteCustomSection(withA, "b", []byte("world"))

	_, beforeA, err := FindCustomSections(withA, "a")
	require.NoError(t, err)

	_, afterA, err := FindCustomSections(withBoth, "a")
	require.NoError(t, err)

	assert.Equal(t, beforeA, afterA)

	_, bContents, err := FindCustomSections(withBoth, "b")
	require.NoError(t, err)
	require.Len(t, bContents, 1)
	assert.Equal(t, []byte("world"), bContents[0])
}

func TestHasCustomSection(t *testing.T) {
	t.Parallel()
	has, err := HasCustomSection(minimalHeader, "nit_metadata")
	require.NoError(t, err)
	assert.False(t, has)

	withSection := WriteCustomSection(minimalHeader, "nit_metadata", []byte("{}"))
	has, err = HasCustomSection(withSection, "nit_metadata")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMultipleMatchingSections(t *testing.T) {
	t.Parallel()
	withFirst := WriteCustomSection(minimalHeader, "k", []byte("one"))
	withBoth := WriteCustomSection(withFirst, "k", []byte("two"))

	_, contents, err := FindCustomSections(withBoth, "k")
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, []byte("one"), contents[0])
	assert.Equal(t, []byte("two"), contents[1])
}

func TestInvalidHeader(t *testing.T) {
	t.Parallel()
	_, _, err := FindCustomSections([]byte("not wasm"), "k")
	require.Error(t, err)
}

func TestComponentHeaderAccepted(t *testing.T) {
	t.Parallel()
	componentHeader := []byte{0x00, 'a', 's', 'm', 13, 0x00, 0x01, 0x00}
	_, _, err := FindCustomSections(componentHeader, "k")
	require.NoError(t, err)
}

func TestTruncatedSectionLength(t *testing.T) {
	t.Parallel()
	// Header plus a tag byte and a length that claims more bytes than exist.
	malformed := append(append([]byte{}, minimalHeader...), 0x00, 0x7F)
	_, _, err := FindCustomSections(malformed, "k")
	require.Error(t, err)
}
