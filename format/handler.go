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

// Package format implements the Format Adapter (spec.md §4.3): per-format
// metadata the awk and sort/distinct backends need to address columns —
// the field separator, the header-parsing preamble, and name/index-to-field
// translation. JSON has no Handler: the jq backend addresses fields by
// dotted path directly, since jq has no notion of a positional "field
// separator" the way awk does.
package format

import (
	"fmt"

	"github.com/kukula/shell-shark/ir"
)

// Handler exposes per-format metadata to the awk and sort/distinct code
// generators.
type Handler interface {
	// FieldSeparator is the awk -F value: the CSV delimiter, or "" for
	// text's default whitespace splitting.
	FieldSeparator() string
	// HeaderPreamble is the awk code executed once for the header row
	// (NR==1), or "" if this format has no header handling.
	HeaderPreamble() string
	// FieldRef produces an awk field reference for column: "$N" for a
	// 1-based index, or "$h[\"name\"]" for a name when headers exist.
	FieldRef(column ir.ColumnRef) (string, error)
	// HasHeader reports whether this handler parses a header row.
	HasHeader() bool
}

// New builds the Handler for format, given the Parse node's delimiter and
// has_header settings. JSON has no awk Handler (jq addresses fields
// directly); callers compiling a JSON subtree must not call New.
func New(f ir.Format, delimiter string, hasHeader bool) (Handler, error) {
	switch f {
	case ir.CSV:
		return &csvHandler{delimiter: delimiter, header: hasHeader}, nil
	case ir.Text:
		return &textHandler{}, nil
	default:
		return nil, fmt.Errorf("format: no awk Handler for %s", f)
	}
}
