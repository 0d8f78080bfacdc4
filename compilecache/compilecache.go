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

// Package compilecache memoizes the plan-tree-to-shell-command compilation
// (spec.md §4.5.6, §9 "Identity/memoization"): identical plan trees compiled
// against the same tool environment produce the same command string, so
// there is no reason to re-run the optimizer and code generator every time
// an engine recompiles the same pipeline.
package compilecache

import (
	"fmt"
	"sync"

	"github.com/kukula/shell-shark/codegen"
	"github.com/kukula/shell-shark/ir"
)

// maxEntries bounds the cache: once it would grow past this, the oldest
// half of entries (by insertion order) is evicted to make room, the same
// halving strategy Dolt's LRU cache test exercises for "no memory
// available".
const maxEntries = 128

type entry struct {
	command string
	backend codegen.Backend
	seq     uint64
}

// Cache maps a (plan hash, tool fingerprint) pair to its compiled command.
// The tool fingerprint is part of the key because the same plan compiles to
// a different command on a host with ripgrep than one with only BSD grep.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	nextSeq uint64
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Key derives the cache key for node under toolFingerprint, a caller-supplied
// string summarizing the detected tools (see toolprobe.ToolInfo)
// that influenced code generation. An error here means node could not be
// hashed (see ir.Hash) — callers should skip caching and compile directly.
func Key(node ir.Node, toolFingerprint string) (string, error) {
	h, err := ir.Hash(node)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x:%s", h, toolFingerprint), nil
}

// Get returns the cached command and its rooting Backend for key, if
// present.
func (c *Cache) Get(key string) (string, codegen.Backend, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", 0, false
	}
	return e.command, e.backend, true
}

// Put stores command and the Backend that rooted it under key, evicting the
// oldest half of the cache first if it is already at capacity.
func (c *Cache) Put(key, command string, backend codegen.Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= maxEntries {
		c.evictOldestHalfLocked()
	}
	c.entries[key] = entry{command: command, backend: backend, seq: c.nextSeq}
	c.nextSeq++
}

func (c *Cache) evictOldestHalfLocked() {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	// Partial selection rather than a full sort: only the cut point matters.
	target := len(keys) / 2
	for i := 0; i < target; i++ {
		oldest := i
		for j := i + 1; j < len(keys); j++ {
			if c.entries[keys[j]].seq < c.entries[keys[oldest]].seq {
				oldest = j
			}
		}
		keys[i], keys[oldest] = keys[oldest], keys[i]
	}
	for _, k := range keys[:target] {
		delete(c.entries, k)
	}
}

// Len reports how many entries are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear discards every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
