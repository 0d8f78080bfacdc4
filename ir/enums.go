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

// Package ir defines the plan intermediate representation: an immutable,
// value-equal tree of operation nodes produced by the builder surface,
// rewritten by the optimizer, and consumed (read-only) by the code
// generator.
package ir

// Format identifies the shape of an input file.
type Format int

const (
	// Text is line-oriented plain text with no columns.
	Text Format = iota
	// CSV is delimited, optionally with a header row.
	CSV
	// JSON is newline-delimited JSON records.
	JSON
)

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// FilterOp is a row predicate operator.
type FilterOp int

const (
	EQ FilterOp = iota
	NE
	LT
	LE
	GT
	GE
	CONTAINS
	REGEX
	STARTSWITH
	ENDSWITH
)

func (op FilterOp) String() string {
	switch op {
	case EQ:
		return "EQ"
	case NE:
		return "NE"
	case LT:
		return "LT"
	case LE:
		return "LE"
	case GT:
		return "GT"
	case GE:
		return "GE"
	case CONTAINS:
		return "CONTAINS"
	case REGEX:
		return "REGEX"
	case STARTSWITH:
		return "STARTSWITH"
	case ENDSWITH:
		return "ENDSWITH"
	default:
		return "UNKNOWN"
	}
}

// AggFunc is a GroupBy aggregation function.
type AggFunc int

const (
	COUNT AggFunc = iota
	SUM
	AVG
	MIN
	MAX
	FIRST
	LAST
	COUNTDISTINCT
)

func (f AggFunc) String() string {
	switch f {
	case COUNT:
		return "COUNT"
	case SUM:
		return "SUM"
	case AVG:
		return "AVG"
	case MIN:
		return "MIN"
	case MAX:
		return "MAX"
	case FIRST:
		return "FIRST"
	case LAST:
		return "LAST"
	case COUNTDISTINCT:
		return "COUNTDISTINCT"
	default:
		return "UNKNOWN"
	}
}

// SortOrder is the direction of a Sort key.
type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

func (o SortOrder) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// JoinType is the kind of a Join node. The Join node is part of the IR per
// spec but has no code generator; see planopt's validation pass.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
)

func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	default:
		return "unknown"
	}
}

// NodeKind tags the variant of a Node, for fast dispatch and logging without
// a type assertion. The IR otherwise leans on Go's type switches, the way
// sql.Node implementations are dispatched in sql/plan and sql/analyzer; Kind
// exists alongside that for the cases (structured logging, the planexplain
// dump) where a string tag is more convenient than a type switch.
type NodeKind int

const (
	SourceKind NodeKind = iota
	ParseKind
	FilterKind
	SelectKind
	GroupByKind
	SortKind
	LimitKind
	DistinctKind
	ParallelKind
	JoinKind
)

func (k NodeKind) String() string {
	switch k {
	case SourceKind:
		return "Source"
	case ParseKind:
		return "Parse"
	case FilterKind:
		return "Filter"
	case SelectKind:
		return "Select"
	case GroupByKind:
		return "GroupBy"
	case SortKind:
		return "Sort"
	case LimitKind:
		return "Limit"
	case DistinctKind:
		return "Distinct"
	case ParallelKind:
		return "Parallel"
	case JoinKind:
		return "Join"
	default:
		return "Unknown"
	}
}
