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

	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/quoting"
	"github.com/kukula/shell-shark/toolprobe"
)

// generateGrepChain emits one grep/rg invocation per whole-line filter,
// piped in data-flow order (closest to the source runs first). filters is
// given top-down (outermost first, as collected while descending the
// tree); the chain reverses it before emitting (spec.md §4.5.1).
func generateGrepChain(filters []*ir.Filter, source *ir.Source, inputCmd string, includeSource bool) (string, error) {
	info, err := toolprobe.DetectGrep()
	if err != nil {
		return "", err
	}

	ordered := make([]*ir.Filter, len(filters))
	copy(ordered, filters)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	stages := make([]string, len(ordered))
	for i, f := range ordered {
		stage, err := generateOneGrep(info, f)
		if err != nil {
			return "", err
		}
		stages[i] = stage
	}

	var pipeline string
	switch {
	case inputCmd != "":
		pipeline = inputCmd + " | " + stages[0]
	case includeSource && source != nil:
		pipeline = stages[0] + " " + quoting.ShellQuote(source.Path)
	default:
		pipeline = stages[0]
	}
	for _, s := range stages[1:] {
		pipeline += " | " + s
	}
	return pipeline, nil
}

func generateOneGrep(info toolprobe.ToolInfo, f *ir.Filter) (string, error) {
	value := fmt.Sprint(f.Value)
	var flags []string
	var pattern string

	isRipgrep := info.Name == "rg"

	if !f.CaseSensitive {
		flags = append(flags, "-i")
	}

	switch f.Op {
	case ir.CONTAINS:
		flags = append(flags, "-F")
		pattern = value
	case ir.STARTSWITH:
		if !isRipgrep {
			flags = append(flags, "-E")
		}
		pattern = "^" + quoting.EscapeERELiteral(value)
	case ir.ENDSWITH:
		if !isRipgrep {
			flags = append(flags, "-E")
		}
		pattern = quoting.EscapeERELiteral(value) + "$"
	case ir.REGEX:
		if toolprobe.GrepSupportsPCRE() {
			flags = append(flags, "-P")
		} else if !isRipgrep {
			flags = append(flags, "-E")
		}
		pattern = value
	default:
		return "", ir.ErrCompile.New(fmt.Sprintf("grep backend cannot handle whole-line filter op %s", f.Op))
	}

	if isRipgrep {
		flags = append(flags, "--no-filename")
	}

	cmd := info.Path
	for _, flag := range flags {
		cmd += " " + flag
	}
	return cmd + " " + quoting.ShellQuote(pattern), nil
}
