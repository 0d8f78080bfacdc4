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

// mergeLimits runs pass 3 (spec.md §4.4): Limit(outer, offset=0) over
// Limit(inner, offset=x) merges to Limit(min(outer, inner), offset=x). A
// nonzero outer offset blocks the merge, since slicing a second window
// starting partway through the inner result is not the same as one window.
func mergeLimits(node ir.Node) (ir.Node, error) {
	return ir.TransformUp(node, mergeLimitPair)
}

func mergeLimitPair(n ir.Node) (ir.Node, error) {
	outer, ok := n.(*ir.Limit)
	if !ok {
		return n, nil
	}
	inner, ok := outer.Child.(*ir.Limit)
	if !ok {
		return n, nil
	}
	if outer.Offset != 0 {
		return n, nil
	}
	count := outer.Count
	if inner.Count < count {
		count = inner.Count
	}
	return ir.NewLimit(inner.Child, count, inner.Offset)
}
