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

package nitmatch

import (
	"regexp"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmmm/nit/private/nit/nitvcs"
)

func TestEmptyQuantifiers(t *testing.T) {
	t.Parallel()
	f := nitvcs.FileRecord{Path: []byte("x"), Kind: nitvcs.Text}
	assert.True(t, Matches(f, Expr{Kind: KindAnd, List: nil}))
	assert.False(t, Matches(f, Expr{Kind: KindOr, List: nil}))
}

func TestMatchExpressionScenario(t *testing.T) {
	t.Parallel()
	files := []nitvcs.FileRecord{
		{Path: []byte("foo.rs"), Kind: nitvcs.Text},
		{Path: []byte("foo.py"), Kind: nitvcs.Text},
		{Path: []byte("run.sh"), Kind: nitvcs.ExecutableText, Shebang: "/bin/sh", HasShebang: true},
	}

	rsGlob, err := glob.Compile("*.rs")
	require.NoError(t, err)
	shebangRe := regexp.MustCompile("^/bin/sh$")

	expr := Expr{
		Kind: KindAnd,
		List: []Expr{
			{
				Kind: KindOr,
				List: []Expr{
					{Kind: KindGlob, GlobPattern: rsGlob},
					{Kind: KindShebangRegex, RegexPattern: shebangRe},
				},
			},
			{
				Kind: KindNot,
				Not:  &Expr{Kind: KindType, TypeKind: nitvcs.Binary},
			},
		},
	}

	matched := MatchingFiles(files, expr)
	var names []string
	for _, f := range matched {
		names = append(names, string(f.Path))
	}
	assert.ElementsMatch(t, []string{"foo.rs", "run.sh"}, names)
}

func TestNonUTF8PathNeverMatchesGlobOrRegex(t *testing.T) {
	t.Parallel()
	f := nitvcs.FileRecord{Path: []byte{0xff, 0xfe}, Kind: nitvcs.Text}

	g, err := glob.Compile("*")
	require.NoError(t, err)
	assert.False(t, Matches(f, Expr{Kind: KindGlob, GlobPattern: g}))

	re := regexp.MustCompile(".*")
	assert.False(t, Matches(f, Expr{Kind: KindRegex, RegexPattern: re}))
}

func TestShebangRegexFalseWithoutShebang(t *testing.T) {
	t.Parallel()
	f := nitvcs.FileRecord{Path: []byte("a"), Kind: nitvcs.Text}
	re := regexp.MustCompile(".*")
	assert.False(t, Matches(f, Expr{Kind: KindShebangRegex, RegexPattern: re}))
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	f := nitvcs.FileRecord{Path: []byte("a.rs"), Kind: nitvcs.Text}
	g, err := glob.Compile("*.rs")
	require.NoError(t, err)
	expr := Expr{Kind: KindGlob, GlobPattern: g}
	for i := 0; i < 10; i++ {
		assert.True(t, Matches(f, expr))
	}
}
