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

// Package wasmsection locates and inserts named custom sections in a
// portable WebAssembly module/component binary, without depending on a
// full WASM parser — the format needed here is small: an 8-byte header
// followed by a flat stream of tag+LEB128-length+body sections.
package wasmsection

import (
	"fmt"
	"unicode/utf8"

	"github.com/Timmmm/nit/private/nit/nitkind"
	"github.com/Timmmm/nit/private/nit/nitleb128"
)

const (
	magic = "\x00asm"

	customSectionTag = 0
)

// Range is a byte range [Start, End) within the original input, suitable
// for excising an entire section.
type Range struct {
	Start, End int
}

// Slice returns b[r.Start:r.End].
func (r Range) Slice(b []byte) []byte { return b[r.Start:r.End] }

// validateHeader checks the 8-byte header and accepts exactly the two
// combinations the spec names: the core module format (version 1, layer
// 0) and the component-model format (version 13, layer 1).
func validateHeader(b []byte) error {
	if len(b) < 8 || string(b[:4]) != magic {
		return &nitkind.FormatError{Msg: "missing or invalid wasm magic bytes"}
	}
	version := [2]byte{b[4], b[5]}
	layer := [2]byte{b[6], b[7]}
	switch {
	case layer == [2]byte{0, 0} && version == [2]byte{1, 0}:
		return nil
	case layer == [2]byte{1, 0} && version == [2]byte{13, 0}:
		return nil
	default:
		return &nitkind.FormatError{Msg: fmt.Sprintf("unsupported version/layer combination %v/%v", version, layer)}
	}
}

// FindCustomSections scans the top-level sections of b (no descent into
// nested modules/components) for custom sections (tag 0) named name. It
// returns the byte range of every matching section in its entirety, and
// the content sub-slice of each (the bytes after the embedded name).
func FindCustomSections(b []byte, name string) ([]Range, [][]byte, error) {
	if err := validateHeader(b); err != nil {
		return nil, nil, err
	}

	var ranges []Range
	var contents [][]byte

	offset := 8
	for offset < len(b) {
		sectionStart := offset
		tag := b[offset]
		offset++

		bodyLen, n, ok := nitleb128.Decode(b[offset:])
		if !ok {
			return nil, nil, &nitkind.FormatError{Msg: "truncated section length"}
		}
		offset += n

		bodyStart := offset
		bodyEnd := bodyStart + int(bodyLen)
		if bodyEnd > len(b) || bodyEnd < bodyStart {
			return nil, nil, &nitkind.FormatError{Msg: "section body length reads past end of file"}
		}
		body := b[bodyStart:bodyEnd]

		if tag == customSectionTag {
			nameLen, nn, ok := nitleb128.Decode(body)
			if !ok {
				return nil, nil, &nitkind.FormatError{Msg: "truncated custom section name length"}
			}
			nameStart := nn
			nameEnd := nameStart + int(nameLen)
			if nameEnd > len(body) {
				return nil, nil, &nitkind.FormatError{Msg: "custom section name length reads past end of file"}
			}
			nameBytes := body[nameStart:nameEnd]
			if !utf8.Valid(nameBytes) {
				return nil, nil, &nitkind.FormatError{Msg: "custom section name is not valid UTF-8"}
			}
			if string(nameBytes) == name {
				ranges = append(ranges, Range{Start: sectionStart, End: bodyEnd})
				contents = append(contents, body[nameEnd:])
			}
		}

		offset = bodyEnd
	}

	return ranges, contents, nil
}

// HasCustomSection reports whether b contains at least one custom section
// named name.
func HasCustomSection(b []byte, name string) (bool, error) {
	ranges, _, err := FindCustomSections(b, name)
	if err != nil {
		return false, err
	}
	return len(ranges) > 0, nil
}

// WriteCustomSection appends a correctly framed custom section named name
// with the given content to the end of b, returning the new byte slice.
// Precondition: len(name) and len(content) must each fit in 32 bits,
// which holds for any real module.
func WriteCustomSection(b []byte, name string, content []byte) []byte {
	nameBytes := []byte(name)

	var body []byte
	body = append(body, nitleb128.Encode(uint32(len(nameBytes)))...)
	body = append(body, nameBytes...)
	body = append(body, content...)

	out := make([]byte, 0, len(b)+1+5+len(body))
	out = append(out, b...)
	out = append(out, customSectionTag)
	out = append(out, nitleb128.Encode(uint32(len(body)))...)
	out = append(out, body...)
	return out
}
