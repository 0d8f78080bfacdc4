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
	"fmt"
	"strconv"

	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/quoting"
	"github.com/kukula/shell-shark/toolprobe"
)

// resolveSortColumn turns a Sort/Distinct column reference into a 1-based
// field index: first against an immediately-upstream GroupBy's output
// schema, then by parsing it as a literal integer, and only then erroring
// (spec.md §4.5.4, §9 — the "capable" sort-generator variant).
func resolveSortColumn(col ir.ColumnRef, upstreamGroupBy *ir.GroupBy) (int, error) {
	if col.IsIndex() {
		return col.Index, nil
	}
	if upstreamGroupBy != nil {
		for i, name := range upstreamGroupBy.OutputSchema() {
			if name == col.Name {
				return i + 1, nil
			}
		}
	}
	if n, err := strconv.Atoi(col.Name); err == nil {
		return n, nil
	}
	return 0, ir.ErrResolution.New(col.Name, "cannot resolve column name to a field index: no upstream GroupBy output schema matches it and it is not a numeric index")
}

// findUpstreamGroupBy walks child looking for a GroupBy, stopping at the
// first barrier or Source — a Sort/Distinct only resolves names against a
// GroupBy that feeds it directly (no intervening Sort/Limit/Distinct).
func findUpstreamGroupBy(node ir.Node) *ir.GroupBy {
	cur := node
	for {
		switch n := cur.(type) {
		case *ir.Parse:
			cur = n.Child
		case *ir.Filter:
			cur = n.Child
		case *ir.Select:
			cur = n.Child
		case *ir.GroupBy:
			return n
		default:
			return nil
		}
	}
}

// findDelimiter looks for the delimiter an upstream Parse or GroupBy
// established, for sort/distinct's -t flag.
func findDelimiter(node ir.Node) string {
	cur := node
	for {
		switch n := cur.(type) {
		case *ir.Parse:
			return n.Delimiter
		case *ir.Filter:
			cur = n.Child
		case *ir.Select:
			cur = n.Child
		case *ir.GroupBy:
			// GroupBy's awk output uses the upstream format's delimiter too,
			// or a single space if there was none.
			return findDelimiter(n.Child)
		default:
			return ""
		}
	}
}

func generateSort(n *ir.Sort, inputCmd string) (string, error) {
	info, err := toolprobe.DetectSort()
	if err != nil {
		return "", err
	}

	gb := findUpstreamGroupBy(n.Child)
	delim := findDelimiter(n.Child)

	var flags []string
	if delim != "" {
		flags = append(flags, "-t"+quoting.ShellQuote(delim))
	}
	for _, key := range n.Keys {
		idx, err := resolveSortColumn(key.Column, gb)
		if err != nil {
			return "", err
		}
		spec := fmt.Sprintf("-k%d,%d", idx, idx)
		if n.Numeric {
			spec += "n"
		}
		if key.Order == ir.Desc {
			spec += "r"
		}
		flags = append(flags, spec)
	}
	if toolprobe.SortSupportsParallel() {
		cpu := toolprobe.CPUCount()
		if cpu > 1 {
			flags = append(flags, fmt.Sprintf("--parallel=%d", cpu), "-S 80%")
		}
	}

	cmd := info.Path
	for _, f := range flags {
		cmd += " " + f
	}
	return inputCmd + " | " + cmd, nil
}

func generateLimit(n *ir.Limit, inputCmd string) (string, error) {
	if n.Offset > 0 {
		return fmt.Sprintf("%s | tail -n +%d | head -n %d", inputCmd, n.Offset+1, n.Count), nil
	}
	return fmt.Sprintf("%s | head -n %d", inputCmd, n.Count), nil
}

func generateDistinct(n *ir.Distinct, inputCmd string) (string, error) {
	info, err := toolprobe.DetectSort()
	if err != nil {
		return "", err
	}

	gb := findUpstreamGroupBy(n.Child)
	delim := findDelimiter(n.Child)

	var flags []string
	if delim != "" {
		flags = append(flags, "-t"+quoting.ShellQuote(delim))
	}
	flags = append(flags, "-u")
	for _, col := range n.Columns {
		idx, err := resolveSortColumn(col, gb)
		if err != nil {
			return "", err
		}
		flags = append(flags, fmt.Sprintf("-k%d,%d", idx, idx))
	}

	cmd := info.Path
	for _, f := range flags {
		cmd += " " + f
	}
	return inputCmd + " | " + cmd, nil
}
