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
	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
)

// Hash computes a stable structural digest of node's whole subtree. Two
// value-equal trees (per Equal) always hash identically; this is what keys
// the compilation cache (spec.md §4.5.6, §9 "Identity/memoization").
//
// node is hashed through its concrete pointer type rather than the Node
// interface value so hashstructure's reflection walks exported struct
// fields (including nested *Source/*Filter/... children) instead of just
// seeing an opaque interface.
func Hash(node Node) (uint64, error) {
	h, err := hashstructure.Hash(node, &hashstructure.HashOptions{})
	if err != nil {
		return 0, errors.Wrap(err, "ir: hashing plan tree")
	}
	return h, nil
}
