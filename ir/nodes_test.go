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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSelectRejectsEmptyColumns(t *testing.T) {
	_, err := NewSelect(NewSource("a.txt", Text), nil)
	require.Error(t, err)
	require.True(t, ErrBuild.Is(err))
}

func TestGroupByNormalizesCountStarAndRequiresAliases(t *testing.T) {
	src := NewSource("s.csv", CSV)
	col := Col("*")
	gb, err := NewGroupBy(src, []string{"region"}, []Aggregation{
		{Func: COUNT, Column: &col, Alias: "n"},
	})
	require.NoError(t, err)
	require.Nil(t, gb.Aggregations[0].Column)

	_, err = NewGroupBy(src, []string{"region"}, []Aggregation{{Func: COUNT, Alias: ""}})
	require.Error(t, err)
	require.True(t, ErrBuild.Is(err))

	_, err = NewGroupBy(src, []string{"region"}, []Aggregation{
		{Func: COUNT, Alias: "n"},
		{Func: SUM, Alias: "n"},
	})
	require.Error(t, err)
}

func TestGroupByOutputSchema(t *testing.T) {
	src := NewSource("s.csv", CSV)
	gb, err := NewGroupBy(src, []string{"region"}, []Aggregation{
		{Func: COUNT, Alias: "total_orders"},
		{Func: SUM, Column: colPtr("quantity"), Alias: "total_quantity"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"region", "total_orders", "total_quantity"}, gb.OutputSchema())
}

func colPtr(name string) *ColumnRef {
	c := Col(name)
	return &c
}

func TestParallelRejectsGlobalStateDescendants(t *testing.T) {
	src := NewSource("logs/*.log", Text)
	filter := NewFilter(src, nil, CONTAINS, "ERROR", true)
	limit, err := NewLimit(filter, 10, 0)
	require.NoError(t, err)

	_, err = NewParallel(limit, nil)
	require.Error(t, err)
	require.True(t, ErrBuild.Is(err))

	_, err = NewParallel(filter, nil)
	require.NoError(t, err)
}

func TestParallelFloorsWorkersAtOne(t *testing.T) {
	src := NewSource("logs/*.log", Text)
	filter := NewFilter(src, nil, CONTAINS, "ERROR", true)
	w := -3
	p, err := NewParallel(filter, &w)
	require.NoError(t, err)
	require.Equal(t, 1, *p.Workers)
}

func TestWithChildrenPreservesOtherFields(t *testing.T) {
	src := NewSource("a.csv", CSV)
	limit, err := NewLimit(src, 5, 2)
	require.NoError(t, err)

	replaced, err := limit.WithChildren(NewSource("b.csv", CSV))
	require.NoError(t, err)

	newLimit := replaced.(*Limit)
	require.Equal(t, 5, newLimit.Count)
	require.Equal(t, 2, newLimit.Offset)
	if diff := cmp.Diff(NewSource("b.csv", CSV), newLimit.Child); diff != "" {
		t.Fatalf("child mismatch (-want +got):\n%s", diff)
	}
}

func TestWithChildrenRejectsWrongArity(t *testing.T) {
	src := NewSource("a.csv", CSV)
	_, err := src.WithChildren(NewSource("b.csv", CSV))
	require.Error(t, err)
}
