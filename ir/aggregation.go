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

// Count, Sum, Avg, Min, Max, First, Last and CountDistinct build an
// Aggregation for the given alias, one constructor per aggregate function,
// the shape spec.md §9's builder contract only implies.
//
// Count with an empty column name builds COUNT(*); every other helper
// requires a column.

// Count builds a COUNT aggregation. An empty column name means COUNT(*).
func Count(column, alias string) Aggregation {
	var col *ColumnRef
	if column != "" {
		c := Col(column)
		col = &c
	}
	return Aggregation{Func: COUNT, Column: col, Alias: alias}
}

func Sum(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: SUM, Column: &c, Alias: alias}
}

// Avg builds an AVG aggregation. Mean is an alias for Avg, for callers who
// prefer that name.
func Avg(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: AVG, Column: &c, Alias: alias}
}

// Mean is an alias for Avg.
func Mean(column, alias string) Aggregation { return Avg(column, alias) }

func Min(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: MIN, Column: &c, Alias: alias}
}

func Max(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: MAX, Column: &c, Alias: alias}
}

func First(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: FIRST, Column: &c, Alias: alias}
}

func Last(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: LAST, Column: &c, Alias: alias}
}

func CountDistinct(column, alias string) Aggregation {
	c := Col(column)
	return Aggregation{Func: COUNTDISTINCT, Column: &c, Alias: alias}
}
