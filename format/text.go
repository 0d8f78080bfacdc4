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

package format

import (
	"fmt"

	"github.com/kukula/shell-shark/ir"
)

// textHandler is the Handler for line-oriented plain text: default
// whitespace field splitting, no header, positional access only.
type textHandler struct{}

func (h *textHandler) FieldSeparator() string { return "" }

func (h *textHandler) HeaderPreamble() string { return "" }

func (h *textHandler) FieldRef(column ir.ColumnRef) (string, error) {
	if !column.IsIndex() {
		return "", ir.ErrResolution.New(column.Name, "text format has no header; use an integer index instead")
	}
	return fmt.Sprintf("$%d", column.Index), nil
}

func (h *textHandler) HasHeader() bool { return false }
