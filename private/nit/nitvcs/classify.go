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

package nitvcs

import "bytes"

const shebangSniffLen = 8000

// ModeSymlink and ModeExecutable are the Unix-octal git tree modes that
// drive Kind classification.
const (
	ModeSymlink    = "120000"
	ModeExecutable = "100755"
)

// ClassifyFile derives a FileRecord's Kind and shebang from its git tree
// mode and its content (read lazily by the caller; pass nil content for
// symlinks, whose target is irrelevant to classification).
func ClassifyFile(path []byte, mode string, content []byte) FileRecord {
	if mode == ModeSymlink {
		return FileRecord{Path: path, Kind: Symlink}
	}

	sniff := content
	if len(sniff) > shebangSniffLen {
		sniff = sniff[:shebangSniffLen]
	}
	binary := bytes.IndexByte(sniff, 0) >= 0

	executable := mode == ModeExecutable

	var kind Kind
	switch {
	case executable && binary:
		kind = ExecutableBinary
	case executable && !binary:
		kind = ExecutableText
	case binary:
		kind = Binary
	default:
		kind = Text
	}

	rec := FileRecord{Path: path, Kind: kind}
	if kind == ExecutableText || kind == ExecutableBinary {
		if shebang, ok := firstLineShebang(content); ok {
			rec.Shebang = shebang
			rec.HasShebang = true
		}
	}
	return rec
}

// firstLineShebang returns the suffix after "#!" on the first line of
// content, if the first line begins with "#!".
func firstLineShebang(content []byte) (string, bool) {
	line := content
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		line = content[:idx]
	}
	line = bytes.TrimSuffix(line, []byte("\r"))
	const prefix = "#!"
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return "", false
	}
	return string(line[len(prefix):]), true
}
