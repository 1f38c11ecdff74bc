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

// Package nitmatch evaluates the recursive boolean match-expression
// language used to select which tracked files a linter sees.
package nitmatch

import (
	"regexp"

	"github.com/gobwas/glob"

	"github.com/Timmmm/nit/private/nit/nitvcs"
)

// Kind enumerates the variants of a MatchExpression.
type Kind int

const (
	KindGlob Kind = iota
	KindRegex
	KindType
	KindShebangRegex
	KindNot
	KindOr
	KindAnd
	KindBool
)

// Expr is a node in the match expression tree. Exactly the fields relevant
// to Kind are populated; the zero value of the others is ignored.
//
// Expr owns its children exclusively: Not wraps exactly one, And/Or wrap a
// list. Traversal is purely structural and bounded by input depth, there is
// no cycle detection because none is needed — the tree is only ever built
// by decoding, never mutated into a cycle.
type Expr struct {
	Kind Kind

	GlobPattern  glob.Glob
	RegexPattern *regexp.Regexp
	TypeKind     nitvcs.Kind
	Not          *Expr
	List         []Expr
	BoolValue    bool
}

// Bool builds a literal boolean expression.
func Bool(v bool) Expr { return Expr{Kind: KindBool, BoolValue: v} }

// Matches evaluates expr against file. It is pure and total: equal inputs
// always produce equal outputs.
func Matches(file nitvcs.FileRecord, expr Expr) bool {
	switch expr.Kind {
	case KindGlob:
		path, ok := file.PathStr()
		return ok && expr.GlobPattern.Match(path)
	case KindRegex:
		path, ok := file.PathStr()
		return ok && expr.RegexPattern.MatchString(path)
	case KindType:
		return file.Kind == expr.TypeKind
	case KindShebangRegex:
		return file.HasShebang && expr.RegexPattern.MatchString(file.Shebang)
	case KindNot:
		return !Matches(file, *expr.Not)
	case KindOr:
		for _, e := range expr.List {
			if Matches(file, e) {
				return true
			}
		}
		return false
	case KindAnd:
		for _, e := range expr.List {
			if !Matches(file, e) {
				return false
			}
		}
		return true
	case KindBool:
		return expr.BoolValue
	default:
		return false
	}
}

// MatchingFiles filters files down to those matching expr, preserving
// input order.
func MatchingFiles(files []nitvcs.FileRecord, expr Expr) []nitvcs.FileRecord {
	out := make([]nitvcs.FileRecord, 0, len(files))
	for _, f := range files {
		if Matches(f, expr) {
			out = append(out, f)
		}
	}
	return out
}
