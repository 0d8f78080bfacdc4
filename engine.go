// Copyright 2024 The ShellSpark Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shellshark wires the compilation core (builder → Plan IR →
// Optimizer → Code Generator, using the Format Adapter and Tool
// Capability Probe) into one Engine, the same layering sqle.Engine gives
// SQL parsing → analysis → execution.
package shellshark

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kukula/shell-shark/codegen"
	"github.com/kukula/shell-shark/compilecache"
	"github.com/kukula/shell-shark/executor"
	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/planopt"
	"github.com/kukula/shell-shark/toolprobe"
)

// Config tunes an Engine's behavior. The zero Config is valid and selects
// every default (caching on, auto-detected tools).
type Config struct {
	// DisableCache skips the compilation cache entirely, useful for tests
	// that want every Compile call to re-run the optimizer and generator.
	DisableCache bool
}

// Engine is the compiler entry point: Compile turns a built Plan IR tree
// into a shell command string (optimizing and caching along the way), and
// Run additionally executes that command.
type Engine struct {
	cfg   Config
	cache *compilecache.Cache
	mu    sync.Mutex
	log   *logrus.Entry
}

// New creates an Engine with the given Config.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg,
		cache: compilecache.New(),
		log:   logrus.WithField("component", "engine"),
	}
}

// NewDefault creates an Engine with default settings (caching enabled).
func NewDefault() *Engine { return New(Config{}) }

// toolFingerprint summarizes the detected tool environment for the
// compilation cache's key: a plan compiled under mawk+rg must not collide
// with the same plan compiled under gawk+grep.
func toolFingerprint() string {
	awk, awkErr := toolprobe.DetectAWK()
	grep, grepErr := toolprobe.DetectGrep()
	sortTool, sortErr := toolprobe.DetectSort()
	jq := toolprobe.DetectJQ()

	jqPath := "none"
	if jq != nil {
		jqPath = jq.Path
	}
	return fmt.Sprintf("awk=%s(%v)|grep=%s(%v)|sort=%s(%v)|jq=%s",
		awk.Path, awkErr, grep.Path, grepErr, sortTool.Path, sortErr, jqPath)
}

// Compile optimizes node and lowers it to a single shell command string,
// serving a cached result when the plan and tool environment match a prior
// call (spec.md §4.5.6).
func (e *Engine) Compile(node ir.Node) (string, error) {
	cmd, _, err := e.compile(node)
	return cmd, err
}

// compile is Compile plus the Backend that rooted the compiled command,
// needed by Run to interpret the command's exit code correctly.
func (e *Engine) compile(node ir.Node) (string, codegen.Backend, error) {
	var key string
	if !e.cfg.DisableCache {
		var err error
		key, err = compilecache.Key(node, toolFingerprint())
		if err == nil {
			e.mu.Lock()
			cached, backend, ok := e.cache.Get(key)
			e.mu.Unlock()
			if ok {
				e.log.Debug("compile cache hit")
				return cached, backend, nil
			}
		} else {
			e.log.WithError(err).Debug("compile cache key unavailable, compiling uncached")
			key = ""
		}
	}

	optimized, err := planopt.Optimize(node)
	if err != nil {
		return "", 0, err
	}
	cmd, backend, err := codegen.Compile(optimized)
	if err != nil {
		return "", 0, err
	}

	if key != "" {
		e.mu.Lock()
		e.cache.Put(key, cmd, backend)
		e.mu.Unlock()
	}
	return cmd, backend, nil
}

// Run compiles node and executes the resulting command, gating the
// executor's grep-exit-1-means-no-matches exception (spec.md §4.6(c)) on
// whether grep actually rooted the compiled pipeline's outermost stage.
func (e *Engine) Run(ctx context.Context, node ir.Node) (executor.Result, error) {
	cmd, backend, err := e.compile(node)
	if err != nil {
		return executor.Result{}, err
	}
	return executor.Run(ctx, cmd, backend == codegen.BackendGrep)
}

// ClearCaches invalidates both the compilation cache and every memoized
// tool-probe result, needed after changing a SHELLSPARK_* override or
// installing a tool mid-process (spec.md §4.2, §4.5.6).
func (e *Engine) ClearCaches() {
	e.mu.Lock()
	e.cache.Clear()
	e.mu.Unlock()
	toolprobe.ClearCache()
}
