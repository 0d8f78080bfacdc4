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

// Visitor visits a node during a Walk and returns the Visitor to use for
// that node's children, or nil to stop descending into them.
type Visitor interface {
	Visit(node Node) Visitor
}

type visitorFunc func(Node) Visitor

func (f visitorFunc) Visit(n Node) Visitor { return f(n) }

// VisitFunc adapts a plain function to the Visitor interface.
func VisitFunc(f func(Node) Visitor) Visitor { return visitorFunc(f) }

// Walk traverses node and its descendants pre-order, calling v.Visit on
// each node (including nil children, so shapes are comparable across
// calls — see ir's tests). Walk stops descending into a subtree when
// Visit returns nil.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	if node == nil {
		return
	}
	for _, child := range node.Children() {
		Walk(v, child)
	}
}

// Inspect is Walk for a plain predicate: f is called on every node
// (including nils); returning false stops descent into that node's
// children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspectVisitor(f), node)
}

// inspectVisitor lets Inspect recurse without rebuilding a closure node by
// node.
type inspectVisitor func(Node) bool

func (f inspectVisitor) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// FindSource returns the single reachable Source node in node's subtree, or
// nil if there is none. Every plan has exactly one reachable Source except
// Join (spec.md §3); FindSource does not descend past a Join's second
// child, matching the invariant that generators only ever need "the"
// source.
func FindSource(node Node) *Source {
	var found *Source
	Inspect(node, func(n Node) bool {
		if found != nil {
			return false
		}
		if s, ok := n.(*Source); ok {
			found = s
			return false
		}
		return true
	})
	return found
}

// TransformUp rebuilds node bottom-up: every child subtree is transformed
// first, then fn is applied to the node with its (possibly replaced)
// children. fn receives a node whose children are already the transformed
// ones; it may return that node unchanged, a new node of the same or
// different shape, or an error to abort the whole rewrite.
//
// This is the idiomatic replacement for dataclasses.replace-style rewrite
// helpers: WithChildren plays the role replace() plays there, and
// TransformUp is the generic bottom-up driver every planopt pass is built
// from.
func TransformUp(node Node, fn func(Node) (Node, error)) (Node, error) {
	if node == nil {
		return fn(nil)
	}
	children := node.Children()
	if len(children) > 0 {
		newChildren := make([]Node, len(children))
		for i, c := range children {
			nc, err := TransformUp(c, fn)
			if err != nil {
				return nil, err
			}
			newChildren[i] = nc
		}
		replaced, err := node.WithChildren(newChildren...)
		if err != nil {
			return nil, err
		}
		node = replaced
	}
	return fn(node)
}

// Equal reports deep value-equality of two plan trees: same node kinds,
// same fields, same children, recursively. Used by optimizer confluence
// tests (spec.md §8) and by the compilation cache's soundness guarantees.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch an := a.(type) {
	case *Source:
		bn := b.(*Source)
		return an.Path == bn.Path && an.Format == bn.Format
	case *Parse:
		bn := b.(*Parse)
		return an.Format == bn.Format && an.Delimiter == bn.Delimiter &&
			an.HasHeader == bn.HasHeader && Equal(an.Child, bn.Child)
	case *Filter:
		bn := b.(*Filter)
		return an.equalPredicate(bn) && Equal(an.Child, bn.Child)
	case *Select:
		bn := b.(*Select)
		if len(an.Columns) != len(bn.Columns) {
			return false
		}
		for i := range an.Columns {
			if !an.Columns[i].Equal(bn.Columns[i]) {
				return false
			}
		}
		return Equal(an.Child, bn.Child)
	case *GroupBy:
		bn := b.(*GroupBy)
		if len(an.Keys) != len(bn.Keys) || len(an.Aggregations) != len(bn.Aggregations) {
			return false
		}
		for i := range an.Keys {
			if an.Keys[i] != bn.Keys[i] {
				return false
			}
		}
		for i := range an.Aggregations {
			if !an.Aggregations[i].equal(bn.Aggregations[i]) {
				return false
			}
		}
		return Equal(an.Child, bn.Child)
	case *Sort:
		bn := b.(*Sort)
		if an.Numeric != bn.Numeric || len(an.Keys) != len(bn.Keys) {
			return false
		}
		for i := range an.Keys {
			if an.Keys[i] != bn.Keys[i] {
				return false
			}
		}
		return Equal(an.Child, bn.Child)
	case *Limit:
		bn := b.(*Limit)
		return an.Count == bn.Count && an.Offset == bn.Offset && Equal(an.Child, bn.Child)
	case *Distinct:
		bn := b.(*Distinct)
		if len(an.Columns) != len(bn.Columns) {
			return false
		}
		for i := range an.Columns {
			if !an.Columns[i].Equal(bn.Columns[i]) {
				return false
			}
		}
		return Equal(an.Child, bn.Child)
	case *Parallel:
		bn := b.(*Parallel)
		if (an.Workers == nil) != (bn.Workers == nil) {
			return false
		}
		if an.Workers != nil && *an.Workers != *bn.Workers {
			return false
		}
		return Equal(an.Child, bn.Child)
	case *Join:
		bn := b.(*Join)
		return an.On == bn.On && an.How == bn.How &&
			Equal(an.Left, bn.Left) && Equal(an.Right, bn.Right)
	default:
		return false
	}
}
