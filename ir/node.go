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

import "fmt"

// Node is the common interface of every plan tree node. Nodes are frozen at
// construction: there is no setter anywhere in this package. Rewrites
// (optimizer passes) build new nodes with WithChildren rather than mutating
// existing ones, the same contract sql.Node places on its plan nodes.
type Node interface {
	// Kind reports which variant this node is.
	Kind() NodeKind
	// Children returns this node's child subtrees in a fixed order. Every
	// node has exactly one child except Source (zero) and Join (two).
	Children() []Node
	// WithChildren returns a shallow copy of this node with its children
	// replaced, preserving every other field. len(children) must equal
	// len(n.Children()); otherwise WithChildren returns an error.
	WithChildren(children ...Node) (Node, error)
	// String renders a short, single-line description for logs and errors.
	String() string

	isNode()
}

// ColumnRef identifies a column by name or by a 1-based positional index.
// Exactly one of Name or Index is meaningful; IsIndex reports which.
type ColumnRef struct {
	Name  string
	Index int // 1-based; 0 means "use Name"
}

// Col builds a name-addressed column reference.
func Col(name string) ColumnRef { return ColumnRef{Name: name} }

// ColIndex builds a 1-based positional column reference.
func ColIndex(i int) ColumnRef { return ColumnRef{Index: i} }

// IsIndex reports whether this reference is positional rather than by name.
func (c ColumnRef) IsIndex() bool { return c.Index > 0 }

func (c ColumnRef) String() string {
	if c.IsIndex() {
		return fmt.Sprintf("#%d", c.Index)
	}
	return c.Name
}

// Equal reports whether two column references denote the same column.
func (c ColumnRef) Equal(o ColumnRef) bool {
	return c.Name == o.Name && c.Index == o.Index
}

// Aggregation is one {func, column?, alias} entry of a GroupBy.
type Aggregation struct {
	Func AggFunc
	// Column is nil for COUNT(*): func=COUNT with column=absent normalizes
	// to this during builder construction (spec.md §4.1).
	Column *ColumnRef
	Alias  string
}

func (a Aggregation) String() string {
	col := "*"
	if a.Column != nil {
		col = a.Column.String()
	}
	return fmt.Sprintf("%s(%s)->%s", a.Func, col, a.Alias)
}

func (a Aggregation) equal(o Aggregation) bool {
	if a.Func != o.Func || a.Alias != o.Alias {
		return false
	}
	if (a.Column == nil) != (o.Column == nil) {
		return false
	}
	if a.Column != nil && !a.Column.Equal(*o.Column) {
		return false
	}
	return true
}

// SortKey is one (column, order) pair of a Sort node.
type SortKey struct {
	Column ColumnRef
	Order  SortOrder
}

func (k SortKey) String() string {
	return fmt.Sprintf("%s %s", k.Column, k.Order)
}
