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

// This is an example of projecting two different column sets out of the
// same newline-delimited JSON source, each compiled down to its own jq
// invocation.
package main

import (
	"fmt"
	"log"

	shellshark "github.com/kukula/shell-shark"
	"github.com/kukula/shell-shark/builder"
)

func main() {
	engine := shellshark.NewDefault()

	contacts, err := builder.NewJSON("users.jsonl").SelectNames("name", "email").Build()
	if err != nil {
		log.Fatal(err)
	}
	cmd, err := engine.Compile(contacts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("name+email projection compiles to:")
	fmt.Println("  " + cmd)

	profiles, err := builder.NewJSON("users.jsonl").SelectNames("name", "website").Build()
	if err != nil {
		log.Fatal(err)
	}
	cmd, err = engine.Compile(profiles)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("\nname+website projection compiles to:")
	fmt.Println("  " + cmd)
}
