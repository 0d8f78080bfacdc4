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

// Package executor is the external execution contract (spec.md §4.6): it
// runs a compiled shell command string through a POSIX shell, captures
// stdout/stderr, and applies the one backend-specific exception the
// contract names — grep's exit code 1 with empty stderr means "no lines
// matched", not a failure.
package executor

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

// Result is one command's captured output.
type Result struct {
	Stdout   string
	ExitCode int
}

// Run executes command through /bin/sh -c, the way every backend's emitted
// pipeline (piped grep/awk/sort/jq/find/xargs stages) expects to be
// interpreted. A non-zero exit is an error except the grep "no matches"
// case (spec.md §4.6(c)): exit 1 with nothing on stderr yields an empty,
// non-error Result, but only when grepRooted is true — the caller's
// declaration that the compiled pipeline's outermost stage is actually
// grep (or rg), whose exit code is what determines the whole pipeline's
// exit status under plain POSIX pipe semantics. An awk-only, jq-only,
// sort-chain, or find|xargs pipeline that happens to exit 1 with empty
// stderr is a real failure (spec.md §4.6(d)) and must not be swallowed.
func Run(ctx context.Context, command string, grepRooted bool) (Result, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return Result{Stdout: stdout.String(), ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Result{}, errors.Wrapf(err, "executor: running command failed to even start: %s", command)
	}

	code := exitErr.ExitCode()
	if grepRooted && code == 1 && stderr.Len() == 0 {
		// grep (and rg) exit 1 when no line matched; that is a successful
		// empty result for a grep-rooted pipeline, not a failure.
		return Result{Stdout: stdout.String(), ExitCode: code}, nil
	}

	return Result{}, errors.Errorf("executor: command exited %d: %s\nstderr:\n%s", code, command, stderr.String())
}
