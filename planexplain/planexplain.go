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

// Package planexplain renders a Plan IR tree as YAML: a human-readable
// --explain-style dump, and a structured, diffable fixture format for
// optimizer golden tests in place of ad hoc string comparisons.
package planexplain

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/kukula/shell-shark/ir"
)

// Node is the serializable shadow of one ir.Node: its kind tag, a flat map
// of its non-child fields, and its children in order.
type Node struct {
	Kind     string            `yaml:"kind"`
	Fields   map[string]string `yaml:"fields,omitempty"`
	Children []*Node           `yaml:"children,omitempty"`
}

// Explain renders node's whole subtree as a YAML document.
func Explain(node ir.Node) (string, error) {
	tree := describe(node)
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("planexplain: marshaling plan tree: %w", err)
	}
	return string(out), nil
}

// Describe builds the Node shadow tree without marshaling it, for callers
// (optimizer golden tests) that want to compare structures directly rather
// than their YAML text.
func Describe(node ir.Node) *Node { return describe(node) }

func describe(node ir.Node) *Node {
	if node == nil {
		return nil
	}

	n := &Node{Kind: node.Kind().String(), Fields: fields(node)}
	for _, c := range node.Children() {
		n.Children = append(n.Children, describe(c))
	}
	return n
}

func fields(node ir.Node) map[string]string {
	switch t := node.(type) {
	case *ir.Source:
		return map[string]string{"path": t.Path, "format": t.Format.String()}
	case *ir.Parse:
		return map[string]string{
			"format":     t.Format.String(),
			"delimiter":  t.Delimiter,
			"has_header": fmt.Sprint(t.HasHeader),
		}
	case *ir.Filter:
		col := "line"
		if t.Column != nil {
			col = t.Column.String()
		}
		return map[string]string{
			"column":         col,
			"op":             t.Op.String(),
			"value":          fmt.Sprint(t.Value),
			"case_sensitive": fmt.Sprint(t.CaseSensitive),
		}
	case *ir.Select:
		return map[string]string{"columns": fmt.Sprint(t.Columns)}
	case *ir.GroupBy:
		return map[string]string{
			"keys":          fmt.Sprint(t.Keys),
			"aggregations":  fmt.Sprint(t.Aggregations),
			"output_schema": fmt.Sprint(t.OutputSchema()),
		}
	case *ir.Sort:
		return map[string]string{"keys": fmt.Sprint(t.Keys), "numeric": fmt.Sprint(t.Numeric)}
	case *ir.Limit:
		return map[string]string{"count": fmt.Sprint(t.Count), "offset": fmt.Sprint(t.Offset)}
	case *ir.Distinct:
		return map[string]string{"columns": fmt.Sprint(t.Columns)}
	case *ir.Parallel:
		workers := "auto"
		if t.Workers != nil {
			workers = fmt.Sprint(*t.Workers)
		}
		return map[string]string{"workers": workers}
	case *ir.Join:
		return map[string]string{"on": t.On, "how": t.How.String()}
	default:
		return nil
	}
}
