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

// This is an example of grouping a sales CSV by region, counting and
// summing within each group, and sorting the result by total revenue
// descending — one chain compiling down to awk piped into sort.
package main

import (
	"fmt"
	"log"

	shellshark "github.com/kukula/shell-shark"
	"github.com/kukula/shell-shark/builder"
	"github.com/kukula/shell-shark/ir"
)

func main() {
	engine := shellshark.NewDefault()

	plan, err := builder.NewCSV("sales.csv", ",", true).
		WhereText("quantity__gt", "0").
		GroupBy("region").
		Agg(
			ir.Count("", "total_orders"),
			ir.Sum("quantity", "total_quantity"),
			ir.Sum("revenue", "total_revenue"),
		).
		SortDesc(ir.Col("total_revenue"), true).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	cmd, err := engine.Compile(plan)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("per-region sales summary compiles to:")
	fmt.Println("  " + cmd)
}
