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

import "context"

// VCS is the small collaborator surface the driver consumes. Shelling out
// (or, as here, talking to the git object database directly) is the
// implementation's business; callers only see this interface.
type VCS interface {
	// TopLevel returns the absolute path to the repository's working
	// directory root.
	TopLevel() (string, error)
	// TreeFiles lists every file in the given tree-ish (e.g. "HEAD"),
	// with classification and shebang detection already applied.
	TreeFiles(ctx context.Context, treeish string) ([]FileRecord, error)
	// StagedFiles lists every file in the index.
	StagedFiles(ctx context.Context) ([]FileRecord, error)
	// DiffUnstaged returns an opaque byte string representing the
	// working tree's unstaged changes. Two calls return byte-equal
	// output iff nothing changed in between.
	DiffUnstaged(ctx context.Context) ([]byte, error)
}
