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

package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	res, err := Run(context.Background(), "printf 'a\\nb\\n'", true)
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", res.Stdout)
	require.Equal(t, 0, res.ExitCode)
}

func TestRunTreatsGrepNoMatchAsEmptySuccess(t *testing.T) {
	// grep exits 1 with no stderr when nothing matches, which is what the
	// pipeline below does.
	res, err := Run(context.Background(), "printf 'x' | grep 'this-will-not-match-anything'", true)
	require.NoError(t, err)
	require.Equal(t, "", res.Stdout)
	require.Equal(t, 1, res.ExitCode)
}

func TestRunSurfacesOtherNonZeroExitsAsErrors(t *testing.T) {
	_, err := Run(context.Background(), "echo boom >&2; exit 2", true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestRunSurfacesPipelineStdout(t *testing.T) {
	res, err := Run(context.Background(), "printf 'c,3\\nb,1\\na,2\\n' | sort -t, -k1,1", false)
	require.NoError(t, err)
	require.Equal(t, "a,2\nb,1\nc,3\n", res.Stdout)
}

func TestRunDoesNotSwallowExit1WhenNotGrepRooted(t *testing.T) {
	// Same exit-1-empty-stderr shape a real awk/jq/sort/xargs failure can
	// produce, but grepRooted is false: it must be surfaced as an error
	// rather than treated as grep's "no matches" case (spec.md §4.6(c)/(d)).
	_, err := Run(context.Background(), "exit 1", false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "command exited 1")
}

func TestRunTreatsExit1AsNoMatchesOnlyWhenGrepRooted(t *testing.T) {
	// The exact same command (no stderr, exit 1) succeeds as an empty
	// result when grepRooted is true...
	res, err := Run(context.Background(), "exit 1", true)
	require.NoError(t, err)
	require.Equal(t, "", res.Stdout)
	require.Equal(t, 1, res.ExitCode)

	// ...and is a hard error when it is not.
	_, err = Run(context.Background(), "exit 1", false)
	require.Error(t, err)
}
