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

package nitcas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForBytesDefaultType(t *testing.T) {
	t.Parallel()
	d, err := ForBytes([]byte("some content"))
	require.NoError(t, err)
	assert.Equal(t, TypeShake256, d.Type())
	assert.NotEmpty(t, d.Hex())
}

func TestForBytesIsDeterministic(t *testing.T) {
	t.Parallel()
	a, err := ForBytes([]byte("same content"))
	require.NoError(t, err)
	b, err := ForBytes([]byte("same content"))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestForBytesSha256(t *testing.T) {
	t.Parallel()
	d, err := ForBytes([]byte("x"), WithType(TypeSha256))
	require.NoError(t, err)
	assert.Equal(t, TypeSha256, d.Type())
}

func TestStringParseRoundTrip(t *testing.T) {
	t.Parallel()
	d, err := ForBytes([]byte("round trip me"))
	require.NoError(t, err)
	parsed, err := Parse(d.String())
	require.NoError(t, err)
	assert.True(t, d.Equal(parsed))
}

func TestParseRejectsUnknownType(t *testing.T) {
	t.Parallel()
	_, err := Parse("md5:deadbeef")
	assert.Error(t, err)
}

func TestParseRejectsMissingPrefix(t *testing.T) {
	t.Parallel()
	_, err := Parse("deadbeef")
	assert.Error(t, err)
}
