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
	"strings"

	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/quoting"
	"github.com/kukula/shell-shark/toolprobe"
)

// jqSegment bundles a fused JSON subtree's operations for the jq backend
// (spec.md §4.5.3). GroupBy is deliberately absent: the jq backend does not
// generate aggregation logic (spec.md §9, "JSON + GroupBy").
type jqSegment struct {
	filters []*ir.Filter // column-qualified only
	sel     *ir.Select
	source  *ir.Source
}

func generateJQ(seg jqSegment, inputCmd string, includeSource bool) (string, error) {
	info := toolprobe.DetectJQ()
	if info == nil {
		return "", ir.ErrMissingTool.New("jq", "JSON plans require jq; install it (e.g. apt install jq, brew install jq) and retry")
	}

	var stages []string
	for _, f := range seg.filters {
		cond, err := filterToJQ(f)
		if err != nil {
			return "", err
		}
		stages = append(stages, fmt.Sprintf("select(%s)", cond))
	}
	if seg.sel != nil {
		proj, err := selectToJQ(seg.sel)
		if err != nil {
			return "", err
		}
		stages = append(stages, proj)
	}

	expr := "."
	if len(stages) > 0 {
		expr = strings.Join(stages, " | ")
	}

	cmd := fmt.Sprintf("%s -c %s", info.Path, quoting.ShellQuote(expr))

	switch {
	case inputCmd != "":
		return inputCmd + " | " + cmd, nil
	case includeSource && seg.source != nil:
		return cmd + " " + quoting.ShellQuote(seg.source.Path), nil
	default:
		return cmd, nil
	}
}

func jqFieldRef(col ir.ColumnRef) (string, error) {
	if col.IsIndex() {
		return "", ir.ErrResolution.New(fmt.Sprintf("#%d", col.Index), "integer column indices are not supported for JSON; use a dotted field name")
	}
	name := col.Name
	if strings.HasPrefix(name, ".") {
		return name, nil
	}
	return "." + name, nil
}

func filterToJQ(f *ir.Filter) (string, error) {
	if f.Column == nil {
		return "", ir.ErrCompile.New("jq backend requires a column-qualified filter")
	}
	field, err := jqFieldRef(*f.Column)
	if err != nil {
		return "", err
	}

	str, isStr := f.Value.(string)
	valueLiteral := fmt.Sprint(f.Value)
	if isStr {
		valueLiteral = quoting.JQString(str)
	}

	switch f.Op {
	case ir.EQ:
		return fmt.Sprintf("%s == %s", field, valueLiteral), nil
	case ir.NE:
		return fmt.Sprintf("%s != %s", field, valueLiteral), nil
	case ir.LT:
		return fmt.Sprintf("%s < %s", field, valueLiteral), nil
	case ir.LE:
		return fmt.Sprintf("%s <= %s", field, valueLiteral), nil
	case ir.GT:
		return fmt.Sprintf("%s > %s", field, valueLiteral), nil
	case ir.GE:
		return fmt.Sprintf("%s >= %s", field, valueLiteral), nil
	case ir.CONTAINS:
		return fmt.Sprintf("%s | contains(%s)", field, valueLiteral), nil
	case ir.REGEX:
		if !isStr {
			return "", ir.ErrCompile.New("REGEX filter value must be a string")
		}
		return fmt.Sprintf("%s | test(%s)", field, valueLiteral), nil
	case ir.STARTSWITH:
		return fmt.Sprintf("%s | startswith(%s)", field, valueLiteral), nil
	case ir.ENDSWITH:
		return fmt.Sprintf("%s | endswith(%s)", field, valueLiteral), nil
	default:
		return "", ir.ErrCompile.New(fmt.Sprintf("jq backend cannot handle filter op %s", f.Op))
	}
}

func selectToJQ(sel *ir.Select) (string, error) {
	if len(sel.Columns) == 1 {
		return jqFieldRef(sel.Columns[0])
	}
	names := make([]string, len(sel.Columns))
	for i, col := range sel.Columns {
		if col.IsIndex() {
			return "", ir.ErrResolution.New(fmt.Sprintf("#%d", col.Index), "integer column indices are not supported for JSON; use a dotted field name")
		}
		names[i] = strings.TrimPrefix(col.Name, ".")
	}
	return "{" + strings.Join(names, ", ") + "}", nil
}
