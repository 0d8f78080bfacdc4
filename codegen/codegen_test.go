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
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/toolprobe"
)

func resetTools(t *testing.T) {
	t.Helper()
	toolprobe.ClearCache()
	t.Cleanup(toolprobe.ClearCache)
}

func TestCompileWholeLineFiltersUseGrep(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("app.log", ir.Text)
	col := (*ir.ColumnRef)(nil)
	filter := ir.NewFilter(src, col, ir.CONTAINS, "ERROR", true)

	cmd, backend, err := Compile(filter)
	require.NoError(t, err)
	require.Equal(t, BackendGrep, backend)
	require.Contains(t, cmd, "-F")
	require.Contains(t, cmd, "'ERROR'")
	require.Contains(t, cmd, "app.log")
}

func TestCompileColumnFilterUsesAWK(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("data.csv", ir.CSV)
	parse := ir.NewParse(src, ir.CSV, ",", true)
	col := ir.Col("region")
	filter := ir.NewFilter(parse, &col, ir.EQ, "us", true)

	cmd, backend, err := Compile(filter)
	require.NoError(t, err)
	require.Equal(t, BackendAWK, backend)
	require.Contains(t, cmd, "awk")
	require.Contains(t, cmd, `$h["region"]==`)
	require.Contains(t, cmd, "data.csv")
}

func TestCompileJSONFilterUsesJQ(t *testing.T) {
	resetTools(t)
	if _, err := os.Stat("/usr/bin/jq"); err != nil {
		t.Setenv("SHELLSPARK_JQ", "/bin/sh")
	}
	src := ir.NewSource("events.jsonl", ir.JSON)
	parse := ir.NewParse(src, ir.JSON, "", false)
	col := ir.Col("user.city")
	filter := ir.NewFilter(parse, &col, ir.EQ, "nyc", true)

	cmd, backend, err := Compile(filter)
	require.NoError(t, err)
	require.Equal(t, BackendJQ, backend)
	require.Contains(t, cmd, "-c")
	require.Contains(t, cmd, ".user.city ==")
}

func TestCompileGroupByEmitsAwkAggregation(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("sales.csv", ir.CSV)
	parse := ir.NewParse(src, ir.CSV, ",", true)
	gb, err := ir.NewGroupBy(parse, []string{"region"}, []ir.Aggregation{
		{Func: ir.COUNT, Alias: "n"},
		{Func: ir.SUM, Column: colPtr("amount"), Alias: "total"},
	})
	require.NoError(t, err)

	cmd, backend, err := Compile(gb)
	require.NoError(t, err)
	require.Equal(t, BackendAWK, backend)
	require.Contains(t, cmd, "_keys[")
	require.Contains(t, cmd, "END{")
	require.Contains(t, cmd, "sales.csv")
}

func TestCompileSortResolvesGroupByColumnNames(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("sales.csv", ir.CSV)
	parse := ir.NewParse(src, ir.CSV, ",", true)
	gb, err := ir.NewGroupBy(parse, []string{"region"}, []ir.Aggregation{
		{Func: ir.COUNT, Alias: "n"},
	})
	require.NoError(t, err)
	sort, err := ir.NewSort(gb, []ir.SortKey{{Column: ir.Col("n"), Order: ir.Desc}}, true)
	require.NoError(t, err)

	cmd, backend, err := Compile(sort)
	require.NoError(t, err)
	require.Equal(t, BackendSort, backend)
	require.Contains(t, cmd, "sort")
	require.Contains(t, cmd, "-k2,2nr")
}

func TestCompileSortRejectsUnresolvableColumnName(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("data.csv", ir.CSV)
	parse := ir.NewParse(src, ir.CSV, ",", true)
	sort, err := ir.NewSort(parse, []ir.SortKey{{Column: ir.Col("region"), Order: ir.Asc}}, false)
	require.NoError(t, err)

	_, _, err = Compile(sort)
	require.Error(t, err)
	require.True(t, ir.ErrResolution.Is(err))
}

func TestCompileLimitWithOffsetUsesTailHead(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("data.csv", ir.CSV)
	limit, err := ir.NewLimit(src, 10, 5)
	require.NoError(t, err)

	cmd, backend, err := Compile(limit)
	require.NoError(t, err)
	require.Equal(t, BackendLimit, backend)
	require.Contains(t, cmd, "tail -n +6")
	require.Contains(t, cmd, "head -n 10")
}

func TestCompileLimitWithoutOffsetUsesHeadOnly(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("data.csv", ir.CSV)
	limit, err := ir.NewLimit(src, 10, 0)
	require.NoError(t, err)

	cmd, backend, err := Compile(limit)
	require.NoError(t, err)
	require.Equal(t, BackendLimit, backend)
	require.NotContains(t, cmd, "tail")
	require.Contains(t, cmd, "head -n 10")
}

func TestCompileDistinctUsesSortDashU(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("data.csv", ir.CSV)
	dist := ir.NewDistinct(src, nil)

	cmd, backend, err := Compile(dist)
	require.NoError(t, err)
	require.Equal(t, BackendDistinct, backend)
	require.Contains(t, cmd, "sort")
	require.Contains(t, cmd, "-u")
}

func TestCompileParallelEmitsFindXargsAndStripsSourcePath(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("logs/*.log", ir.Text)
	col := (*ir.ColumnRef)(nil)
	filter := ir.NewFilter(src, col, ir.CONTAINS, "ERROR", true)
	par, err := ir.NewParallel(filter, nil)
	require.NoError(t, err)

	cmd, backend, err := Compile(par)
	require.NoError(t, err)
	require.Equal(t, BackendParallel, backend)
	require.Contains(t, cmd, "find 'logs' -name '*.log' -print0")
	require.Contains(t, cmd, "xargs -0 -P")
	// Headless: the source path must not appear a second time as a
	// trailing grep argument, since xargs supplies it.
	require.Equal(t, 1, strings.Count(cmd, "*.log"))
}

func TestShellQuotingPreventsInjectionInGrepPattern(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("data.txt", ir.Text)
	col := (*ir.ColumnRef)(nil)
	filter := ir.NewFilter(src, col, ir.CONTAINS, "'; rm -rf /; echo '", true)

	cmd, _, err := Compile(filter)
	require.NoError(t, err)
	// Every quote inside the value is closed, escaped and reopened ('\''),
	// so the value can never terminate the single-quoted string early.
	require.Contains(t, cmd, `''\''; rm -rf /; echo '\'''`)
}

func TestCompileBackendReflectsOutermostStageNotUpstreamFilters(t *testing.T) {
	resetTools(t)
	src := ir.NewSource("app.log", ir.Text)
	col := (*ir.ColumnRef)(nil)
	filter := ir.NewFilter(src, col, ir.CONTAINS, "ERROR", true)
	sort, err := ir.NewSort(filter, []ir.SortKey{{Column: ir.ColIndex(1), Order: ir.Asc}}, false)
	require.NoError(t, err)

	_, backend, err := Compile(sort)
	require.NoError(t, err)
	// The grep filter only feeds the sort stage; sort's exit code, not
	// grep's, governs the whole pipeline's exit status.
	require.Equal(t, BackendSort, backend)
}

func colPtr(name string) *ir.ColumnRef {
	c := ir.Col(name)
	return &c
}
