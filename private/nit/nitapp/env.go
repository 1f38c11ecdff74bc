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

// Package nitapp holds the process-wide, environment-derived state: the
// env var lookup used by logging setup and cache directory resolution.
package nitapp

import (
	"fmt"
	"os"
)

// EnvContainer decouples environment-variable reads from os.Getenv so
// tests can inject a fixed environment.
type EnvContainer interface {
	// Env returns the value of key, or "" if unset.
	Env(key string) string
}

// NewEnvContainer wraps a fixed map, for tests.
func NewEnvContainer(env map[string]string) EnvContainer {
	return mapEnvContainer(env)
}

type mapEnvContainer map[string]string

func (m mapEnvContainer) Env(key string) string { return m[key] }

// OSEnvContainer reads from the real process environment.
type OSEnvContainer struct{}

// Env implements EnvContainer.
func (OSEnvContainer) Env(key string) string { return os.Getenv(key) }

// ResolveCacheDir implements the cache-directory resolution order: the
// NIT_CACHE_DIR environment variable if set and non-empty, else the
// platform user-cache directory joined with "nit", else $HOME/nit.
func ResolveCacheDir(env EnvContainer) (string, error) {
	if dir := env.Env("NIT_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + string(os.PathSeparator) + "nit", nil
	}
	home := env.Env("HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}
	if home == "" {
		return "", fmt.Errorf("could not determine a cache directory: no NIT_CACHE_DIR, no user cache dir, no HOME")
	}
	return home + string(os.PathSeparator) + "nit", nil
}
