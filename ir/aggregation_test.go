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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountWildcardHasNilColumn(t *testing.T) {
	agg := Count("", "total")
	require.Equal(t, COUNT, agg.Func)
	require.Nil(t, agg.Column)
	require.Equal(t, "total", agg.Alias)
}

func TestCountNamedColumnKeepsColumn(t *testing.T) {
	agg := Count("status", "n")
	require.NotNil(t, agg.Column)
	require.Equal(t, "status", agg.Column.Name)
}

func TestMeanIsAliasForAvg(t *testing.T) {
	require.Equal(t, Avg("amount", "avg_amount"), Mean("amount", "avg_amount"))
}

func TestAggregationHelpersSetExpectedFunc(t *testing.T) {
	cases := []struct {
		name string
		agg  Aggregation
		want AggFunc
	}{
		{"sum", Sum("amount", "total"), SUM},
		{"min", Min("amount", "lo"), MIN},
		{"max", Max("amount", "hi"), MAX},
		{"first", First("amount", "f"), FIRST},
		{"last", Last("amount", "l"), LAST},
		{"countdistinct", CountDistinct("user_id", "uniques"), COUNTDISTINCT},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.agg.Func)
			require.NotNil(t, c.agg.Column)
		})
	}
}
