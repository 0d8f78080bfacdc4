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

// Package codegen is the Code Generator (spec.md §4.5): it walks an
// optimized plan top-down and, for every subtree rooted at a barrier node
// (Sort, Limit, Distinct, Parallel, or the plan root), dispatches to one
// backend that fuses every non-barrier descendant (Parse, Filter, Select,
// GroupBy) into a single tool invocation — jq for JSON, awk for anything
// column-aware, grep for a bare stack of whole-line filters.
package codegen

import (
	"fmt"

	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/quoting"
)

// sourceMode controls whether a fused segment's generated command includes
// its trailing source-file argument. Headless is used when compiling a
// Parallel node's child, where xargs supplies the file argument instead.
type sourceMode int

const (
	inline sourceMode = iota
	headless
)

// Compile walks an already-optimized plan tree and produces the single
// POSIX shell pipeline that implements it, along with the Backend that
// produced the pipeline's outermost (last-run) stage.
func Compile(node ir.Node) (string, Backend, error) {
	return compileChain(node, inline)
}

func compileChain(node ir.Node, mode sourceMode) (string, Backend, error) {
	switch n := node.(type) {
	case *ir.Sort:
		upstream, _, err := compileChain(n.Child, mode)
		if err != nil {
			return "", 0, err
		}
		cmd, err := generateSort(n, upstream)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendSort, nil
	case *ir.Limit:
		upstream, _, err := compileChain(n.Child, mode)
		if err != nil {
			return "", 0, err
		}
		cmd, err := generateLimit(n, upstream)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendLimit, nil
	case *ir.Distinct:
		upstream, _, err := compileChain(n.Child, mode)
		if err != nil {
			return "", 0, err
		}
		cmd, err := generateDistinct(n, upstream)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendDistinct, nil
	case *ir.Parallel:
		cmd, err := generateParallel(n)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendParallel, nil
	case *ir.Join:
		return "", 0, ir.ErrCompile.New("join() has no code generator backend")
	default:
		return compileFusedSegment(node, mode)
	}
}

// compileFusedSegment walks down a contiguous run of non-barrier nodes
// (Parse, Filter, Select, GroupBy), collecting their operations, until it
// reaches either a Source (the bottom of the whole plan) or another
// barrier (whose compiled output becomes this segment's stdin).
func compileFusedSegment(node ir.Node, mode sourceMode) (string, Backend, error) {
	var (
		parseNode *ir.Parse
		filters   []*ir.Filter
		selNode   *ir.Select
		groupBy   *ir.GroupBy
		source    *ir.Source
		barrier   ir.Node
	)

	cur := node
loop:
	for {
		switch t := cur.(type) {
		case *ir.Parse:
			parseNode = t
			cur = t.Child
		case *ir.Filter:
			filters = append(filters, t)
			cur = t.Child
		case *ir.Select:
			selNode = t
			cur = t.Child
		case *ir.GroupBy:
			groupBy = t
			cur = t.Child
		case *ir.Source:
			source = t
			break loop
		default:
			barrier = cur
			break loop
		}
	}

	var inputCmd string
	if barrier != nil {
		var err error
		inputCmd, _, err = compileChain(barrier, mode)
		if err != nil {
			return "", 0, err
		}
	}
	includeSource := mode == inline

	isJSON := parseNode != nil && parseNode.Format == ir.JSON
	if isJSON && groupBy != nil {
		return "", 0, ir.ErrCompile.New("aggregating JSON records is not supported: the jq backend has no aggregation strategy (materialize to text/CSV first)")
	}

	switch {
	case isJSON:
		cmd, err := generateJQ(jqSegment{filters: columnFilters(filters), sel: selNode, source: source}, inputCmd, includeSource)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendJQ, nil

	case parseNode != nil || selNode != nil || groupBy != nil || hasColumnFilter(filters):
		cmd, err := generateAWK(awkSegment{
			parse:   parseNode,
			filters: columnFilters(filters),
			sel:     selNode,
			groupBy: groupBy,
			source:  source,
		}, inputCmd, includeSource)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendAWK, nil

	case len(filters) > 0:
		cmd, err := generateGrepChain(filters, source, inputCmd, includeSource)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendGrep, nil

	default:
		// No operations at all between this barrier/root and the source or
		// an upstream barrier: a plain passthrough so callers can still
		// pipe from, or read directly from, something.
		cmd, err := generatePassthrough(source, inputCmd, includeSource)
		if err != nil {
			return "", 0, err
		}
		return cmd, BackendPassthrough, nil
	}
}

func hasColumnFilter(filters []*ir.Filter) bool {
	for _, f := range filters {
		if f.Column != nil {
			return true
		}
	}
	return false
}

func columnFilters(filters []*ir.Filter) []*ir.Filter {
	var out []*ir.Filter
	for _, f := range filters {
		if f.Column != nil {
			out = append(out, f)
		}
	}
	return out
}

// generatePassthrough handles a barrier sitting directly over a Source (or
// directly over another barrier with nothing fused in between): `cat` reads
// the file unmodified so the barrier above always has a command to pipe
// from.
func generatePassthrough(source *ir.Source, inputCmd string, includeSource bool) (string, error) {
	if inputCmd != "" {
		return inputCmd, nil
	}
	if includeSource && source != nil {
		return fmt.Sprintf("cat %s", quoting.ShellQuote(source.Path)), nil
	}
	return "cat", nil
}
