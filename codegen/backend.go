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

// Backend identifies which tool produced the outermost stage of a compiled
// command. Under plain POSIX pipe semantics (no pipefail) the exit code of
// a multi-stage pipeline is the exit code of its last stage, so callers that
// need to interpret a command's exit code (the executor's grep-exit-1
// special case, spec.md §4.6(c)) need to know which tool that last stage
// actually is, not just which tools appear anywhere upstream.
type Backend int

const (
	BackendPassthrough Backend = iota
	BackendGrep
	BackendAWK
	BackendJQ
	BackendSort
	BackendLimit
	BackendDistinct
	BackendParallel
)

func (b Backend) String() string {
	switch b {
	case BackendPassthrough:
		return "passthrough"
	case BackendGrep:
		return "grep"
	case BackendAWK:
		return "awk"
	case BackendJQ:
		return "jq"
	case BackendSort:
		return "sort"
	case BackendLimit:
		return "limit"
	case BackendDistinct:
		return "distinct"
	case BackendParallel:
		return "parallel"
	default:
		return "unknown"
	}
}
