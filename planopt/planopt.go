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

// Package planopt is the Plan Optimizer (spec.md §4.4): three rewrite
// passes run in order over the Plan IR — filter pushdown, redundancy
// elimination, and limit merging — followed by a validation pass that
// rejects any plan containing a Join, since no code generator backend
// implements one (spec.md §9). Every pass is built on ir.TransformUp, the
// same bottom-up-rewrite shape sql/analyzer rule functions use via
// plan.TransformUp.
package planopt

import (
	"github.com/kukula/shell-shark/ir"
)

// Optimize runs every pass over node in order and returns the rewritten
// plan, or an error if the plan is not well-formed for any backend (for
// example, it contains a Join).
func Optimize(node ir.Node) (ir.Node, error) {
	node, err := pushdownFilters(node)
	if err != nil {
		return nil, err
	}
	node, err = eliminateRedundancy(node)
	if err != nil {
		return nil, err
	}
	node, err = mergeLimits(node)
	if err != nil {
		return nil, err
	}
	if err := validate(node); err != nil {
		return nil, err
	}
	return node, nil
}

// validate rejects any plan containing a Join: the IR allows the node to
// be built, but no code generator backend knows how to emit one.
func validate(node ir.Node) error {
	var bad bool
	ir.Inspect(node, func(n ir.Node) bool {
		if n == nil {
			return true
		}
		if n.Kind() == ir.JoinKind {
			bad = true
			return false
		}
		return true
	})
	if bad {
		return ir.ErrCompile.New("join() has no code generator backend; it cannot be compiled")
	}
	return nil
}
