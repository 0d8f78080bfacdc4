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

// Package builder is the fluent method-chaining surface (spec.md §4.1) that
// constructs a Plan IR tree one node at a time. It owns no compilation
// logic of its own: every chaining method here stacks at most one ir.Node
// on top of the pipeline built so far (GroupBy only records pending keys
// for the following Agg), normalizing to the effects §4.1 requires.
package builder

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/kukula/shell-shark/ir"
)

// Pipeline accumulates a plan tree as its methods are chained. The zero
// value is not usable; construct one with NewCSV/NewText/NewJSON.
type Pipeline struct {
	node ir.Node
	err  error

	// pendingKeys holds group_by's keys until the following Agg call
	// resolves them into one GroupBy node, per §4.1's two-step contract.
	pendingKeys []string
}

func newPipeline(source *ir.Source) *Pipeline {
	return &Pipeline{node: source}
}

// NewText starts a pipeline over a line-oriented text file or glob.
func NewText(path string) *Pipeline {
	return newPipeline(ir.NewSource(path, ir.Text))
}

// NewCSV starts a pipeline over a delimited file or glob, parsed
// immediately with the given delimiter and header flag.
func NewCSV(path, delimiter string, hasHeader bool) *Pipeline {
	p := newPipeline(ir.NewSource(path, ir.CSV))
	return p.Parse(ir.CSV, delimiter, hasHeader)
}

// NewJSON starts a pipeline over a newline-delimited JSON file or glob,
// parsed immediately.
func NewJSON(path string) *Pipeline {
	p := newPipeline(ir.NewSource(path, ir.JSON))
	return p.Parse(ir.JSON, "", false)
}

// Err returns the first error raised by any method in the chain so far, or
// nil. Build returns this same error; Err lets callers check mid-chain.
func (p *Pipeline) Err() error { return p.err }

// fail records err (if not already failed) and returns p unchanged, so a
// method that hits an error can still be chained without panicking.
func (p *Pipeline) fail(err error) *Pipeline {
	if p.err == nil {
		p.err = err
	}
	return p
}

// Build finalizes the chain and returns its root node, or the first error
// recorded along the way.
func (p *Pipeline) Build() (ir.Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.pendingKeys) > 0 {
		return nil, ir.ErrBuild.New("group_by() has no following agg() call")
	}
	return p.node, nil
}

// Parse stacks a Parse node binding the pipeline so far to format.
func (p *Pipeline) Parse(format ir.Format, delimiter string, hasHeader bool) *Pipeline {
	if p.err != nil {
		return p
	}
	p.node = ir.NewParse(p.node, format, delimiter, hasHeader)
	return p
}

// Filter stacks a whole-line or column-qualified Filter node directly,
// the explicit (non-sugared) entry point every Where* helper delegates to.
func (p *Pipeline) Filter(column *ir.ColumnRef, op ir.FilterOp, value any, caseSensitive bool) *Pipeline {
	if p.err != nil {
		return p
	}
	p.node = ir.NewFilter(p.node, column, op, value, caseSensitive)
	return p
}

// whereOps maps a Where spec's "__op" suffix to the filter operator it
// selects; a bare "column" with no suffix means EQ, matching the Python
// original's filter(**kwargs) default.
var whereOps = map[string]ir.FilterOp{
	"eq":         ir.EQ,
	"ne":         ir.NE,
	"lt":         ir.LT,
	"le":         ir.LE,
	"gt":         ir.GT,
	"ge":         ir.GE,
	"contains":   ir.CONTAINS,
	"regex":      ir.REGEX,
	"startswith": ir.STARTSWITH,
	"endswith":   ir.ENDSWITH,
}

// Where parses a "column__op" spec (e.g. "status__eq", "message__contains",
// or bare "status" for EQ) and stacks the matching Filter, a keyword-args
// style column/operator spec passed as one string (spec.md §9).
func (p *Pipeline) Where(spec string, value any) *Pipeline {
	if p.err != nil {
		return p
	}
	column, op, err := parseWhereSpec(spec)
	if err != nil {
		return p.fail(err)
	}
	return p.Filter(&column, op, value, true)
}

// WhereCaseInsensitive is Where with case_sensitive=false.
func (p *Pipeline) WhereCaseInsensitive(spec string, value any) *Pipeline {
	if p.err != nil {
		return p
	}
	column, op, err := parseWhereSpec(spec)
	if err != nil {
		return p.fail(err)
	}
	return p.Filter(&column, op, value, false)
}

func parseWhereSpec(spec string) (ir.ColumnRef, ir.FilterOp, error) {
	name, opName, hasOp := strings.Cut(spec, "__")
	if name == "" {
		return ir.ColumnRef{}, 0, ir.ErrBuild.New("Where() spec must name a column")
	}
	if !hasOp {
		return ir.Col(name), ir.EQ, nil
	}
	op, ok := whereOps[strings.ToLower(opName)]
	if !ok {
		return ir.ColumnRef{}, 0, ir.ErrBuild.New(fmt.Sprintf("Where() spec %q names unknown operator %q", spec, opName))
	}
	return ir.Col(name), op, nil
}

// WhereLine stacks a whole-line Filter (column absent).
func (p *Pipeline) WhereLine(op ir.FilterOp, value string, caseSensitive bool) *Pipeline {
	return p.Filter(nil, op, value, caseSensitive)
}

// WhereEquals, WhereContains, WhereRegex, WhereStartsWith and WhereEndsWith
// are explicit per-operator sugar over a named column, offered alongside
// Where per spec.md §9 ("may offer explicit per-op methods").
func (p *Pipeline) WhereEquals(column string, value any) *Pipeline {
	col := ir.Col(column)
	return p.Filter(&col, ir.EQ, value, true)
}

func (p *Pipeline) WhereContains(column string, value string) *Pipeline {
	col := ir.Col(column)
	return p.Filter(&col, ir.CONTAINS, value, true)
}

func (p *Pipeline) WhereRegex(column string, pattern string) *Pipeline {
	col := ir.Col(column)
	return p.Filter(&col, ir.REGEX, pattern, true)
}

func (p *Pipeline) WhereStartsWith(column string, value string) *Pipeline {
	col := ir.Col(column)
	return p.Filter(&col, ir.STARTSWITH, value, true)
}

func (p *Pipeline) WhereEndsWith(column string, value string) *Pipeline {
	col := ir.Col(column)
	return p.Filter(&col, ir.ENDSWITH, value, true)
}

// Select stacks a projection over the given columns, by name or index.
func (p *Pipeline) Select(columns ...ir.ColumnRef) *Pipeline {
	if p.err != nil {
		return p
	}
	sel, err := ir.NewSelect(p.node, columns)
	if err != nil {
		return p.fail(err)
	}
	p.node = sel
	return p
}

// SelectNames is Select sugar for plain column-name strings.
func (p *Pipeline) SelectNames(names ...string) *Pipeline {
	cols := make([]ir.ColumnRef, len(names))
	for i, n := range names {
		cols[i] = ir.Col(n)
	}
	return p.Select(cols...)
}

// GroupBy records pending grouping keys; the following Agg call resolves
// them into one GroupBy node. Calling Agg twice without an intervening
// GroupBy, or calling Build while GroupBy keys are still pending, is an
// error — §4.1's two-step contract.
func (p *Pipeline) GroupBy(keys ...string) *Pipeline {
	if p.err != nil {
		return p
	}
	if len(keys) == 0 {
		return p.fail(ir.ErrBuild.New("group_by() requires at least one key"))
	}
	p.pendingKeys = append([]string(nil), keys...)
	return p
}

// Agg resolves a pending GroupBy's keys plus the given aggregations into
// one GroupBy node. Calling it with no pending group_by() is an error.
func (p *Pipeline) Agg(aggs ...ir.Aggregation) *Pipeline {
	if p.err != nil {
		return p
	}
	if p.pendingKeys == nil {
		return p.fail(ir.ErrBuild.New("agg() called with no preceding group_by()"))
	}
	gb, err := ir.NewGroupBy(p.node, p.pendingKeys, aggs)
	if err != nil {
		return p.fail(err)
	}
	p.node = gb
	p.pendingKeys = nil
	return p
}

// Sort stacks a single-key Sort. Use SortMulti for a multi-key sort.
func (p *Pipeline) Sort(column ir.ColumnRef, order ir.SortOrder, numeric bool) *Pipeline {
	return p.SortMulti([]ir.SortKey{{Column: column, Order: order}}, numeric)
}

// SortDesc is descending-sort shorthand, kept alongside the explicit
// SortOrder enum (spec.md §9).
func (p *Pipeline) SortDesc(column ir.ColumnRef, numeric bool) *Pipeline {
	return p.Sort(column, ir.Desc, numeric)
}

// SortMulti stacks a Sort over several (column, order) keys at once.
func (p *Pipeline) SortMulti(keys []ir.SortKey, numeric bool) *Pipeline {
	if p.err != nil {
		return p
	}
	s, err := ir.NewSort(p.node, keys, numeric)
	if err != nil {
		return p.fail(err)
	}
	p.node = s
	return p
}

// Limit stacks a row-count slice, offset 0.
func (p *Pipeline) Limit(count int) *Pipeline {
	return p.LimitOffset(count, 0)
}

// LimitOffset stacks a [offset, offset+count) slice.
func (p *Pipeline) LimitOffset(count, offset int) *Pipeline {
	if p.err != nil {
		return p
	}
	l, err := ir.NewLimit(p.node, count, offset)
	if err != nil {
		return p.fail(err)
	}
	p.node = l
	return p
}

// Distinct stacks a dedup over columns (nil compares whole rows).
func (p *Pipeline) Distinct(columns ...ir.ColumnRef) *Pipeline {
	if p.err != nil {
		return p
	}
	var cols []ir.ColumnRef
	if len(columns) > 0 {
		cols = columns
	}
	p.node = ir.NewDistinct(p.node, cols)
	return p
}

// Parallel stacks a fan-out over every file the Source's glob matches.
// workers <= 0 means "use the CPU count".
func (p *Pipeline) Parallel(workers int) *Pipeline {
	if p.err != nil {
		return p
	}
	var w *int
	if workers > 0 {
		w = &workers
	}
	par, err := ir.NewParallel(p.node, w)
	if err != nil {
		return p.fail(err)
	}
	p.node = par
	return p
}

// WhereText is Where for a value that arrived as a string from an untyped
// call site (a CLI flag, a config file) rather than already-typed Go code:
// raw is coerced to an int64 or float64 with cast.To*E when it parses as
// one, falling back to the literal string otherwise, so a numeric
// comparison op (LT/LE/GT/GE) against a column compares numerically rather
// than lexically.
func (p *Pipeline) WhereText(spec string, raw string) *Pipeline {
	return p.Where(spec, coerceNumeric(raw))
}

func coerceNumeric(s string) any {
	if n, err := cast.ToInt64E(s); err == nil {
		return n
	}
	if f, err := cast.ToFloat64E(s); err == nil {
		return f
	}
	return s
}
