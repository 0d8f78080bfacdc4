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

package ir

import goerrors "gopkg.in/src-d/go-errors.v1"

// The four error kinds spec.md §7 requires the core to distinguish, shared
// across builder, planopt and codegen so callers can tell them apart with
// a single errors.Is-style check (goerrors.Kind.Is) regardless of which
// package raised the error.
var (
	// ErrBuild is malformed plan construction: empty select(), agg()
	// without a preceding group_by(), parallel() atop a global-state op,
	// an unknown filter op or aggregation function name.
	ErrBuild = goerrors.NewKind("build error: %s")

	// ErrResolution is a column name that cannot be resolved: no header
	// to resolve against, a sort/distinct column that isn't numeric and
	// has no GroupBy schema above it to resolve against, or an integer
	// column index used against a JSON source.
	ErrResolution = goerrors.NewKind("cannot resolve column %q: %s")

	// ErrMissingTool is a required backend tool that isn't present on the
	// host, e.g. a JSON plan compiled with no jq on PATH.
	ErrMissingTool = goerrors.NewKind("missing required tool %q: %s")

	// ErrCompile is any other impossibility in code generation, e.g. a
	// Join node (declared in the IR, never lowered by any backend).
	ErrCompile = goerrors.NewKind("compile error: %s")
)
