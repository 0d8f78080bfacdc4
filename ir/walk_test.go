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

	"github.com/stretchr/testify/require"
)

func sampleTree() (*Select, *Filter, *Parse, *Source) {
	src := NewSource("a.csv", CSV)
	parse := NewParse(src, CSV, ",", true)
	filter := NewFilter(parse, nil, CONTAINS, "x", true)
	sel, err := NewSelect(filter, []ColumnRef{Col("a")})
	if err != nil {
		panic(err)
	}
	return sel, filter, parse, src
}

type recordingVisitor struct {
	visited *[]Node
	stopAt  NodeKind
}

func (v recordingVisitor) Visit(n Node) Visitor {
	*v.visited = append(*v.visited, n)
	if n != nil && n.Kind() == v.stopAt {
		return nil
	}
	return v
}

func TestWalkVisitsEveryNode(t *testing.T) {
	sel, filter, parse, src := sampleTree()

	var visited []Node
	Walk(recordingVisitor{visited: &visited, stopAt: -1}, sel)

	require.Equal(t, []Node{sel, filter, parse, src}, visited)
}

func TestWalkStopsWhenVisitReturnsNil(t *testing.T) {
	sel, filter, _, _ := sampleTree()

	var visited []Node
	Walk(recordingVisitor{visited: &visited, stopAt: FilterKind}, sel)

	require.Equal(t, []Node{sel, filter}, visited)
}

func TestInspect(t *testing.T) {
	sel, filter, parse, src := sampleTree()

	var visited []Node
	Inspect(sel, func(n Node) bool {
		visited = append(visited, n)
		return true
	})
	require.Equal(t, []Node{sel, filter, parse, src}, visited)

	visited = nil
	Inspect(sel, func(n Node) bool {
		visited = append(visited, n)
		_, isFilter := n.(*Filter)
		return !isFilter
	})
	require.Equal(t, []Node{sel, filter}, visited)
}

func TestFindSource(t *testing.T) {
	sel, _, _, src := sampleTree()
	require.Same(t, src, FindSource(sel))
	require.Nil(t, FindSource(nil))
}

func TestTransformUpRebuildsBottomUp(t *testing.T) {
	sel, _, _, _ := sampleTree()

	var order []NodeKind
	result, err := TransformUp(sel, func(n Node) (Node, error) {
		order = append(order, n.Kind())
		return n, nil
	})
	require.NoError(t, err)
	require.True(t, Equal(sel, result))
	require.Equal(t, []NodeKind{SourceKind, ParseKind, FilterKind, SelectKind}, order)
}

func TestTransformUpCanReplaceNodes(t *testing.T) {
	sel, _, _, _ := sampleTree()

	result, err := TransformUp(sel, func(n Node) (Node, error) {
		if f, ok := n.(*Filter); ok {
			return NewFilter(f.Child, f.Column, f.Op, "y", f.CaseSensitive), nil
		}
		return n, nil
	})
	require.NoError(t, err)

	newFilter := result.(*Select).Children()[0].(*Filter)
	require.Equal(t, "y", newFilter.Value)
}

func TestEqual(t *testing.T) {
	a, _, _, _ := sampleTree()
	b, _, _, _ := sampleTree()
	require.True(t, Equal(a, b))

	c, err := NewSelect(b.Child, []ColumnRef{Col("b")})
	require.NoError(t, err)
	require.False(t, Equal(a, c))
}
