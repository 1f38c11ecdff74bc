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

// Package nitstore is the content-addressed module cache: deduplicated
// concurrent downloads, integrity verification against a user-declared
// hash, and path resolution for both remote and local linter locations.
package nitstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/Timmmm/nit/private/nit/nitapp"
	"github.com/Timmmm/nit/private/nit/nitcas"
	"github.com/Timmmm/nit/private/nit/nitconfig"
	"github.com/Timmmm/nit/private/nit/nitkind"
)

// DefaultMaxConcurrentDownloads is the default bound on simultaneous
// downloads (spec.md §3, §5).
const DefaultMaxConcurrentDownloads = 4

// Store is a content-addressed cache of downloaded linter modules rooted
// at CacheDir.
type Store struct {
	CacheDir string
	// MaxConcurrentDownloads bounds simultaneous downloads; 0 means
	// DefaultMaxConcurrentDownloads.
	MaxConcurrentDownloads int
	// HTTPClient is used for downloads; nil means http.DefaultClient.
	HTTPClient *http.Client
	Logger     Logger
}

// Logger is the minimal logging surface the store needs, so callers can
// pass a *slog.Logger or a no-op in tests without this package depending
// on log/slog directly.
type Logger interface {
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}

// New builds a Store rooted at cacheDir with sensible defaults.
func New(cacheDir string) *Store {
	return &Store{CacheDir: cacheDir}
}

func (s *Store) logger() Logger {
	if s.Logger == nil {
		return noopLogger{}
	}
	return s.Logger
}

func (s *Store) concurrency() int {
	if s.MaxConcurrentDownloads > 0 {
		return s.MaxConcurrentDownloads
	}
	return DefaultMaxConcurrentDownloads
}

func (s *Store) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

// FetchAll ensures every remote linter in linters is present in the cache
// with verified content. It fails fast (before any download) if the same
// URL is declared with two different expected hashes.
func (s *Store) FetchAll(ctx context.Context, linters []nitconfig.Linter) error {
	urlToHash, err := s.dedupeURLs(linters)
	if err != nil {
		return err
	}
	if len(urlToHash) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("creating cache dir %s", s.CacheDir), Err: err}
	}

	urls := make([]string, 0, len(urlToHash))
	for url := range urlToHash {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	sem := semaphore.NewWeighted(int64(s.concurrency()))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var combined error
	for _, url := range urls {
		url := url
		hash := urlToHash[url]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				mu.Unlock()
				return
			}
			defer sem.Release(1)
			if err := s.fetchOne(ctx, url, hash); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return combined
}

// dedupeURLs projects remote entries to url -> expected hash, failing if
// the same URL appears with two different hashes.
func (s *Store) dedupeURLs(linters []nitconfig.Linter) (map[string]string, error) {
	urlToHash := make(map[string]string)
	for _, linter := range linters {
		if linter.Location.Remote == nil {
			continue
		}
		remote := linter.Location.Remote
		if existing, ok := urlToHash[remote.URL]; ok {
			if existing != remote.Hash {
				return nil, &nitkind.IntegrityError{
					Msg: fmt.Sprintf("linter %q: URL %s declared with differing hashes %q and %q", linter.Name, remote.URL, existing, remote.Hash),
				}
			}
			continue
		}
		urlToHash[remote.URL] = remote.Hash
	}
	return urlToHash, nil
}

// fetchOne runs the download-and-verify protocol (spec.md §4.5 step 3) for
// one URL.
func (s *Store) fetchOne(ctx context.Context, url, expectedHash string) error {
	cachedPath := s.pathForURL(url)

	if matches, err := fileHashEquals(cachedPath, expectedHash); err == nil && matches {
		return nil
	}

	s.logger().Info("downloading linter module", "url", url)

	tmpPath := filepath.Join(s.CacheDir, uniqueFilename("tmp-", ".wasm"))
	defer os.Remove(tmpPath) // no-op once renamed away

	if err := s.download(ctx, url, tmpPath); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, cachedPath); err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("renaming downloaded module into place for %s", url), Err: err}
	}

	matches, err := fileHashEquals(cachedPath, expectedHash)
	if err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("re-hashing cached module for %s", url), Err: err}
	}
	if !matches {
		return &nitkind.IntegrityError{Msg: fmt.Sprintf("hash mismatch for %s after download", url)}
	}
	return nil
}

func (s *Store) download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("building request for %s", url), Err: err}
	}
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("GET %s", url), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &nitkind.IoError{Msg: fmt.Sprintf("GET %s returned status %s", url, resp.Status)}
	}

	f, err := os.Create(destPath)
	if err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("creating temp file for %s", url), Err: err}
	}
	defer f.Close()

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		return &nitkind.IoError{Msg: fmt.Sprintf("writing downloaded content for %s", url), Err: err}
	}

	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return &nitkind.IoError{Msg: fmt.Sprintf("content length for %s was %d but %d bytes were written", url, resp.ContentLength, written)}
	}
	return nil
}

// pathForURL returns the cache path a remote module's URL hashes to.
func (s *Store) pathForURL(url string) string {
	digest, err := nitcas.ForBytes([]byte(url))
	if err != nil {
		// ForBytes over an in-memory hash can't fail; this would only
		// trip if the hash algorithm itself were broken.
		panic(fmt.Sprintf("hashing url: %v", err))
	}
	return filepath.Join(s.CacheDir, digest.Hex()+".wasm")
}

// ModulePath resolves where a linter's module binary lives on disk, given
// the repository top level (for local linters) or the cache (for remote
// ones).
func (s *Store) ModulePath(topLevel string, loc nitconfig.LinterLocation) string {
	if loc.Local != nil {
		return filepath.Join(topLevel, *loc.Local)
	}
	return s.pathForURL(loc.Remote.URL)
}

// fileHashEquals re-hashes path with whatever algorithm expectedHash names
// (e.g. "sha256:...") and compares. A bare hex value with no "type:" prefix
// is hashed with the store's default algorithm, matching what pathForURL
// and fetchOne produce on download.
func fileHashEquals(path, expectedHash string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var opts []nitcas.Option
	wantHex := expectedHash
	if parsed, err := nitcas.Parse(expectedHash); err == nil {
		opts = append(opts, nitcas.WithType(parsed.Type()))
		wantHex = parsed.Hex()
	}

	digest, err := nitcas.ForContent(f, opts...)
	if err != nil {
		return false, err
	}
	return digest.Hex() == wantHex || digest.String() == expectedHash, nil
}

// ResolveCacheDir is re-exported for callers that only need nitstore; it
// defers to nitapp so there's one implementation of the resolution order.
func ResolveCacheDir(env nitapp.EnvContainer) (string, error) {
	return nitapp.ResolveCacheDir(env)
}
