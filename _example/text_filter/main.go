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

// This is an example of filtering a log file with whole-line filters,
// first for ERROR entries alone and then for ERROR or WARN entries with one
// combined regex, printing each compiled shell command and then running
// the second one.
package main

import (
	"context"
	"fmt"
	"log"

	shellshark "github.com/kukula/shell-shark"
	"github.com/kukula/shell-shark/builder"
	"github.com/kukula/shell-shark/ir"
)

func main() {
	engine := shellshark.NewDefault()

	errors, err := builder.NewText("app.log").WhereLine(ir.CONTAINS, "ERROR", true).Build()
	if err != nil {
		log.Fatal(err)
	}
	cmd, err := engine.Compile(errors)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("ERROR filter compiles to:")
	fmt.Println("  " + cmd)

	issues, err := builder.NewText("app.log").WhereLine(ir.REGEX, "(ERROR|WARN)", true).Build()
	if err != nil {
		log.Fatal(err)
	}
	cmd, err = engine.Compile(issues)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("\nCombined ERROR|WARN filter compiles to:")
	fmt.Println("  " + cmd)

	res, err := engine.Run(context.Background(), issues)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n%d bytes of matching lines\n", len(res.Stdout))
}
