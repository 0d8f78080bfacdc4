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

package planexplain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kukula/shell-shark/ir"
)

func TestExplainRendersSourceAndFilter(t *testing.T) {
	src := ir.NewSource("app.log", ir.Text)
	col := (*ir.ColumnRef)(nil)
	filter := ir.NewFilter(src, col, ir.CONTAINS, "ERROR", true)

	out, err := Explain(filter)
	require.NoError(t, err)
	require.Contains(t, out, "kind: Filter")
	require.Contains(t, out, "kind: Source")
	require.Contains(t, out, "ERROR")
}

func TestDescribeNestsChildrenInOrder(t *testing.T) {
	src := ir.NewSource("data.csv", ir.CSV)
	parse := ir.NewParse(src, ir.CSV, ",", true)

	tree := Describe(parse)
	require.Equal(t, "Parse", tree.Kind)
	require.Len(t, tree.Children, 1)
	require.Equal(t, "Source", tree.Children[0].Kind)
	require.Equal(t, "data.csv", tree.Children[0].Fields["path"])
}

func TestDescribeNilNodeIsNil(t *testing.T) {
	require.Nil(t, Describe(nil))
}

func TestDescribeRendersGroupByOutputSchema(t *testing.T) {
	src := ir.NewSource("sales.csv", ir.CSV)
	parse := ir.NewParse(src, ir.CSV, ",", true)
	gb, err := ir.NewGroupBy(parse, []string{"region"}, []ir.Aggregation{ir.Count("", "n")})
	require.NoError(t, err)

	tree := Describe(gb)
	require.Contains(t, tree.Fields["output_schema"], "region")
	require.Contains(t, tree.Fields["output_schema"], "n")
}
