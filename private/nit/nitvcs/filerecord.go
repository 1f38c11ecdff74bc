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

// Package nitvcs produces FileRecords from a version-control snapshot and
// exposes the small collaborator interface the rest of the driver consumes
// (tree listing, staged listing, working-tree diff).
package nitvcs

import "unicode/utf8"

// Kind classifies a tracked file.
type Kind int

const (
	// Text is a regular file whose first 8000 bytes contain no zero byte.
	Text Kind = iota
	// Binary is a regular file whose first 8000 bytes contain a zero byte.
	Binary
	// ExecutableText is an executable (mode 100755) regular file with no
	// embedded zero byte in its first 8000 bytes.
	ExecutableText
	// ExecutableBinary is an executable (mode 100755) regular file with an
	// embedded zero byte in its first 8000 bytes.
	ExecutableBinary
	// Symlink is a tree entry with mode 120000.
	Symlink
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Binary:
		return "binary"
	case ExecutableText:
		return "executable_text"
	case ExecutableBinary:
		return "executable_binary"
	case Symlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// FileRecord is one tracked file as seen by this run. Records are immutable
// once produced and carry no VCS identity beyond Path.
type FileRecord struct {
	// Path is repo-relative, forward-slash separated, as reported by the
	// VCS. It may not be valid UTF-8 if the VCS stored raw path bytes;
	// PathStr reports whether it decoded cleanly.
	Path []byte
	Kind Kind
	// Shebang is the suffix of the first line after "#!", present only
	// for ExecutableText/ExecutableBinary files whose first line begins
	// with "#!". Absent otherwise.
	Shebang string
	HasShebang bool
}

// PathStr returns the path as a string along with whether it is valid
// UTF-8. Non-UTF-8 paths evaluate to false in Glob/Regex match expressions.
func (f FileRecord) PathStr() (string, bool) {
	return string(f.Path), utf8.Valid(f.Path)
}
