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

package compilecache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kukula/shell-shark/codegen"
	"github.com/kukula/shell-shark/ir"
)

func TestGetMissReturnsFalse(t *testing.T) {
	c := New()
	_, _, ok := c.Get("nope")
	require.False(t, ok)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := New()
	src := ir.NewSource("a.txt", ir.Text)
	key, err := Key(src, "gawk/grep/sort")
	require.NoError(t, err)

	c.Put(key, "cat a.txt", codegen.BackendPassthrough)
	got, backend, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "cat a.txt", got)
	require.Equal(t, codegen.BackendPassthrough, backend)
}

func TestKeyDiffersByToolFingerprint(t *testing.T) {
	src := ir.NewSource("a.txt", ir.Text)
	k1, err := Key(src, "gawk")
	require.NoError(t, err)
	k2, err := Key(src, "mawk")
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestKeyStableForEqualTrees(t *testing.T) {
	a := ir.NewSource("a.txt", ir.Text)
	b := ir.NewSource("a.txt", ir.Text)
	k1, err := Key(a, "gawk")
	require.NoError(t, err)
	k2, err := Key(b, "gawk")
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestClearEmptiesCache(t *testing.T) {
	c := New()
	src := ir.NewSource("a.txt", ir.Text)
	key, err := Key(src, "gawk")
	require.NoError(t, err)
	c.Put(key, "cat a.txt", codegen.BackendPassthrough)
	require.Equal(t, 1, c.Len())

	c.Clear()
	require.Equal(t, 0, c.Len())
	_, _, ok := c.Get(key)
	require.False(t, ok)
}

func TestPutEvictsOldestHalfAtCapacity(t *testing.T) {
	c := New()
	for i := 0; i < maxEntries; i++ {
		c.Put(fmt.Sprintf("key-%d", i), fmt.Sprintf("cmd-%d", i), codegen.BackendGrep)
	}
	require.Equal(t, maxEntries, c.Len())

	// One more insert should trigger eviction of the oldest half rather
	// than growing past maxEntries.
	c.Put("key-new", "cmd-new", codegen.BackendGrep)
	require.LessOrEqual(t, c.Len(), maxEntries)

	// The very first entries inserted are the oldest and should be gone.
	_, _, ok := c.Get("key-0")
	require.False(t, ok)

	// The newest entry must survive the eviction that made room for it.
	got, backend, ok := c.Get("key-new")
	require.True(t, ok)
	require.Equal(t, "cmd-new", got)
	require.Equal(t, codegen.BackendGrep, backend)
}
