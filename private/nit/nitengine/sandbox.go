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

// Package nitengine sandboxes and invokes linter modules: it owns the
// wazero runtime, the compiled-module cache, and the per-invocation
// filesystem/stdio restrictions, and composes those invocations according
// to a linter's declared metadata.
package nitengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/Timmmm/nit/private/nit/nitkind"
)

// maxCapturedOutput is the cap on captured stdout/stderr per invocation;
// overflow is silently dropped rather than failing the invocation.
const maxCapturedOutput = 10 * 1024 * 1024

// Sandbox owns the wazero runtime and its compiled-module cache, shared
// across every invocation of every linter in a run.
type Sandbox struct {
	runtime wazero.Runtime
}

// NewSandbox builds a sandbox whose precompiled-module cache lives under
// cacheDir.
func NewSandbox(ctx context.Context, cacheDir string) (*Sandbox, error) {
	compilationCache, err := wazero.NewCompilationCacheWithDir(cacheDir)
	if err != nil {
		return nil, &nitkind.IoError{Msg: fmt.Sprintf("opening compilation cache at %s", cacheDir), Err: err}
	}
	config := wazero.NewRuntimeConfig().WithCompilationCache(compilationCache)
	runtime := wazero.NewRuntimeWithConfig(ctx, config)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, &nitkind.SandboxError{Msg: "instantiating WASI preview1 host module", Err: err}
	}
	return &Sandbox{runtime: runtime}, nil
}

// Close releases the underlying wazero runtime.
func (s *Sandbox) Close(ctx context.Context) error {
	return s.runtime.Close(ctx)
}

// CompiledModule is a precompiled linter module, reusable across
// invocations and safe for concurrent use.
type CompiledModule struct {
	compiled wazero.CompiledModule
}

// Compile precompiles moduleBytes. The result may be invoked many times
// concurrently.
func (s *Sandbox) Compile(ctx context.Context, moduleBytes []byte) (*CompiledModule, error) {
	compiled, err := s.runtime.CompileModule(ctx, moduleBytes)
	if err != nil {
		return nil, &nitkind.SandboxError{Msg: "compiling linter module", Err: err}
	}
	return &CompiledModule{compiled: compiled}, nil
}

// Close releases the compiled module.
func (m *CompiledModule) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// InvocationResult is the outcome of one sandboxed invocation that
// returned in a way the driver can classify (as opposed to a fatal host
// error, which is returned separately).
type InvocationResult struct {
	// Succeeded is true iff the module exited with code 0.
	Succeeded bool
	ExitCode  uint32
	Stdout    []byte
	Stderr    []byte
}

// Invoke runs one invocation of module inside the sandbox: no network, a
// single preopened directory mounted at rootDir granting full read/write
// access, capped in-memory stdio buffers, and the given argument vector
// with an empty environment (spec's invocation sandbox contract).
//
// A non-zero module exit is reported in the returned InvocationResult,
// not as an error: only host-side faults (instantiation failure, a
// module-level trap) are returned as errors, since those are fatal to the
// whole run rather than attributable to this invocation's files.
func (s *Sandbox) Invoke(ctx context.Context, module *CompiledModule, rootDir string, argv []string) (InvocationResult, error) {
	var stdout, stderr cappedBuffer

	fsConfig := wazero.NewFSConfig().WithDirMount(rootDir, "/")
	moduleConfig := wazero.NewModuleConfig().
		WithArgs(argv...).
		WithFSConfig(fsConfig).
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithSysWalltime().
		WithSysNanotime()

	instance, err := s.runtime.InstantiateModule(ctx, module.compiled, moduleConfig)
	if instance != nil {
		defer instance.Close(ctx)
	}
	if err == nil {
		return InvocationResult{Succeeded: true, ExitCode: 0, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
	}

	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return InvocationResult{
			Succeeded: code == 0,
			ExitCode:  code,
			Stdout:    stdout.Bytes(),
			Stderr:    stderr.Bytes(),
		}, nil
	}

	return InvocationResult{}, &nitkind.SandboxError{Msg: "invoking linter module", Err: err}
}

// cappedBuffer is an io.Writer that stops accepting bytes once it has
// buffered maxCapturedOutput, silently dropping the rest rather than
// failing the write (matching the spec's "overflow is dropped" stdio
// contract).
type cappedBuffer struct {
	buf bytes.Buffer
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	remaining := maxCapturedOutput - c.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
	} else {
		c.buf.Write(p)
	}
	return len(p), nil
}

func (c *cappedBuffer) Bytes() []byte {
	return c.buf.Bytes()
}

var _ io.Writer = (*cappedBuffer)(nil)
