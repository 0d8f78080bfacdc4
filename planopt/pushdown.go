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

package planopt

import "github.com/kukula/shell-shark/ir"

// pushdownFilters runs pass 1 (spec.md §4.4): every Filter repeatedly swaps
// with its child while that swap is legal, so it ends up as deep as
// possible in the tree (ideally adjacent to Parse/Source, where the awk and
// grep backends can fuse it).
func pushdownFilters(node ir.Node) (ir.Node, error) {
	return ir.TransformUp(node, sinkFilterIfAny)
}

func sinkFilterIfAny(n ir.Node) (ir.Node, error) {
	f, ok := n.(*ir.Filter)
	if !ok {
		return n, nil
	}
	return sinkFilter(f)
}

// sinkFilter pushes f past its child when the legality matrix allows it,
// recursing so a filter descends multiple levels in one pass.
func sinkFilter(f *ir.Filter) (ir.Node, error) {
	switch c := f.Child.(type) {
	case *ir.Parse:
		return sinkPast(f, c, c.Child)
	case *ir.Filter:
		return sinkPast(f, c, c.Child)
	case *ir.Select:
		if f.Column == nil || c.HasColumn(*f.Column) {
			return sinkPast(f, c, c.Child)
		}
		return f, nil
	default:
		// GroupBy, Sort, Limit, Distinct, Source: no.
		return f, nil
	}
}

// sinkPast swaps f below the single-child node c: c's new child is f
// (re-rooted at grandchild), and f's former position is taken by c. The
// swapped filter then keeps trying to sink further.
func sinkPast(f *ir.Filter, c ir.Node, grandchild ir.Node) (ir.Node, error) {
	moved := ir.NewFilter(grandchild, f.Column, f.Op, f.Value, f.CaseSensitive)
	sunk, err := sinkFilter(moved)
	if err != nil {
		return nil, err
	}
	return c.WithChildren(sunk)
}
