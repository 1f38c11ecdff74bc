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
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/flynn/json5"
	"github.com/gobwas/glob"

	"github.com/Timmmm/nit/private/nit/nitvcs"
)

// externally-tagged representation: each node is a single-key JSON object,
// the key naming the variant ("glob", "regex", "type", "shebang_regex",
// "not", "or", "and", "bool"). This is the JSON shape both the user config
// and the embedded module metadata use for match expressions.
type wireExpr struct {
	Glob         *string     `json:"glob,omitempty"`
	Regex        *string     `json:"regex,omitempty"`
	Type         *string     `json:"type,omitempty"`
	ShebangRegex *string     `json:"shebang_regex,omitempty"`
	Not          *wireExpr   `json:"not,omitempty"`
	Or           []wireExpr  `json:"or,omitempty"`
	And          []wireExpr  `json:"and,omitempty"`
	Bool         *bool       `json:"bool,omitempty"`
}

var kindNameToVCS = map[string]nitvcs.Kind{
	"symlink":           nitvcs.Symlink,
	"executable_text":   nitvcs.ExecutableText,
	"executable_binary": nitvcs.ExecutableBinary,
	"text":              nitvcs.Text,
	"binary":            nitvcs.Binary,
}

// MarshalJSON implements json.Marshaler, encoding e back into the same
// externally tagged representation UnmarshalJSON accepts.
func (e Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(e))
}

func toWire(e Expr) wireExpr {
	switch e.Kind {
	case KindGlob:
		s := e.GlobPattern.String()
		return wireExpr{Glob: &s}
	case KindRegex:
		s := e.RegexPattern.String()
		return wireExpr{Regex: &s}
	case KindType:
		s := e.TypeKind.String()
		return wireExpr{Type: &s}
	case KindShebangRegex:
		s := e.RegexPattern.String()
		return wireExpr{ShebangRegex: &s}
	case KindNot:
		inner := toWire(*e.Not)
		return wireExpr{Not: &inner}
	case KindOr:
		return wireExpr{Or: toWireList(e.List)}
	case KindAnd:
		return wireExpr{And: toWireList(e.List)}
	default:
		v := e.BoolValue
		return wireExpr{Bool: &v}
	}
}

func toWireList(list []Expr) []wireExpr {
	wires := make([]wireExpr, len(list))
	for i, e := range list {
		wires[i] = toWire(e)
	}
	return wires
}

// UnmarshalJSON implements json.Unmarshaler, decoding the externally tagged
// representation into Expr. It is also reused by the JSON5 config decoder
// (nitconfig), since json5's decode-into-struct path honors
// json.Unmarshaler. json5 hands the method the raw JSON5 text of the
// value, so it is decoded with json5, which also accepts plain JSON.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var w wireExpr
	if err := json5.Unmarshal(data, &w); err != nil {
		return err
	}
	expr, err := fromWire(w)
	if err != nil {
		return err
	}
	*e = expr
	return nil
}

func fromWire(w wireExpr) (Expr, error) {
	switch {
	case w.Glob != nil:
		g, err := glob.Compile(*w.Glob)
		if err != nil {
			return Expr{}, fmt.Errorf("invalid glob pattern %q: %w", *w.Glob, err)
		}
		return Expr{Kind: KindGlob, GlobPattern: g}, nil
	case w.Regex != nil:
		re, err := regexp.Compile(*w.Regex)
		if err != nil {
			return Expr{}, fmt.Errorf("invalid regex pattern %q: %w", *w.Regex, err)
		}
		return Expr{Kind: KindRegex, RegexPattern: re}, nil
	case w.Type != nil:
		kind, ok := kindNameToVCS[*w.Type]
		if !ok {
			return Expr{}, fmt.Errorf("unknown file type %q", *w.Type)
		}
		return Expr{Kind: KindType, TypeKind: kind}, nil
	case w.ShebangRegex != nil:
		re, err := regexp.Compile(*w.ShebangRegex)
		if err != nil {
			return Expr{}, fmt.Errorf("invalid shebang_regex pattern %q: %w", *w.ShebangRegex, err)
		}
		return Expr{Kind: KindShebangRegex, RegexPattern: re}, nil
	case w.Not != nil:
		inner, err := fromWire(*w.Not)
		if err != nil {
			return Expr{}, err
		}
		return Expr{Kind: KindNot, Not: &inner}, nil
	case w.Or != nil:
		list, err := fromWireList(w.Or)
		if err != nil {
			return Expr{}, err
		}
		return Expr{Kind: KindOr, List: list}, nil
	case w.And != nil:
		list, err := fromWireList(w.And)
		if err != nil {
			return Expr{}, err
		}
		return Expr{Kind: KindAnd, List: list}, nil
	case w.Bool != nil:
		return Expr{Kind: KindBool, BoolValue: *w.Bool}, nil
	default:
		return Expr{}, fmt.Errorf("match expression has no recognized variant")
	}
}

func fromWireList(wires []wireExpr) ([]Expr, error) {
	list := make([]Expr, len(wires))
	for i, w := range wires {
		expr, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		list[i] = expr
	}
	return list, nil
}
