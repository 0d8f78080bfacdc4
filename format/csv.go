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
	"github.com/kukula/shell-shark/quoting"
)

// csvHandler is the Handler for delimited files, with an optional header
// row mapping column names to 1-based field indices.
type csvHandler struct {
	delimiter string
	header    bool
}

func (h *csvHandler) FieldSeparator() string { return h.delimiter }

func (h *csvHandler) HeaderPreamble() string {
	if !h.header {
		return ""
	}
	return `NR==1{for(i=1;i<=NF;i++)h[$i]=i; next}`
}

func (h *csvHandler) FieldRef(column ir.ColumnRef) (string, error) {
	if column.IsIndex() {
		return fmt.Sprintf("$%d", column.Index), nil
	}
	if !h.header {
		return "", ir.ErrResolution.New(column.Name, "csv has no header; use an integer index instead")
	}
	return fmt.Sprintf("$h[%s]", quoting.AWKString(column.Name)), nil
}

func (h *csvHandler) HasHeader() bool { return h.header }
