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

package codegen

import (
	"fmt"
	"path"

	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/quoting"
	"github.com/kukula/shell-shark/toolprobe"
)

// generateParallel implements the parallel wrapper backend (spec.md
// §4.5.5): the child pipeline (which, by NewParallel's validation, can only
// contain Parse/Filter/Select over a single Source) is compiled headless —
// without its trailing source-file argument — and fanned out with
// find | xargs across every file the glob matches.
func generateParallel(n *ir.Parallel) (string, error) {
	source := ir.FindSource(n.Child)
	if source == nil {
		return "", ir.ErrCompile.New("parallel() requires a Source in its subtree")
	}

	dir, pattern := splitGlob(source.Path)

	childCmd, _, err := compileChain(n.Child, headless)
	if err != nil {
		return "", err
	}

	requested := 0
	if n.Workers != nil {
		requested = *n.Workers
	}
	workers := toolprobe.ParallelWorkers(requested)

	return fmt.Sprintf("find %s -name %s -print0 | xargs -0 -P%d %s",
		quoting.ShellQuote(dir), quoting.ShellQuote(pattern), workers, childCmd), nil
}

// splitGlob divides a source path into the directory find should search
// (defaulting to "." when there isn't one) and the glob pattern for -name.
func splitGlob(sourcePath string) (dir, pattern string) {
	dir = path.Dir(sourcePath)
	pattern = path.Base(sourcePath)
	if dir == "" {
		dir = "."
	}
	return dir, pattern
}
