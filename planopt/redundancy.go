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

// eliminateRedundancy runs pass 2 (spec.md §4.4): drop a Distinct whose
// only child is a GroupBy (group keys are already unique), and collapse two
// consecutive Filter nodes carrying an identical predicate to one.
func eliminateRedundancy(node ir.Node) (ir.Node, error) {
	return ir.TransformUp(node, dropRedundant)
}

func dropRedundant(n ir.Node) (ir.Node, error) {
	switch t := n.(type) {
	case *ir.Distinct:
		if _, ok := t.Child.(*ir.GroupBy); ok {
			return t.Child, nil
		}
	case *ir.Filter:
		if inner, ok := t.Child.(*ir.Filter); ok && t.EqualPredicate(inner) {
			return inner, nil
		}
	}
	return n, nil
}
