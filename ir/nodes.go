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

import "fmt"

func wrongArity(kind NodeKind, want, got int) error {
	return ErrCompile.New(fmt.Sprintf("%s.WithChildren: expected %d children, got %d", kind, want, got))
}

// Source is the leaf node declaring an input file or glob.
type Source struct {
	Path   string
	Format Format
}

func NewSource(path string, format Format) *Source { return &Source{Path: path, Format: format} }

func (n *Source) Kind() NodeKind    { return SourceKind }
func (n *Source) Children() []Node  { return nil }
func (n *Source) String() string    { return fmt.Sprintf("Source(%q, %s)", n.Path, n.Format) }
func (*Source) isNode()             {}
func (n *Source) WithChildren(children ...Node) (Node, error) {
	if len(children) != 0 {
		return nil, wrongArity(SourceKind, 0, len(children))
	}
	cp := *n
	return &cp, nil
}

// Parse binds a Source's raw bytes to a format.
type Parse struct {
	Child     Node
	Format    Format
	Delimiter string
	HasHeader bool
}

func NewParse(child Node, format Format, delimiter string, hasHeader bool) *Parse {
	return &Parse{Child: child, Format: format, Delimiter: delimiter, HasHeader: hasHeader}
}

func (n *Parse) Kind() NodeKind   { return ParseKind }
func (n *Parse) Children() []Node { return []Node{n.Child} }
func (n *Parse) String() string {
	return fmt.Sprintf("Parse(%s, delim=%q, header=%v)", n.Format, n.Delimiter, n.HasHeader)
}
func (*Parse) isNode() {}
func (n *Parse) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(ParseKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// Filter is a row predicate. Column is nil for a whole-line filter.
type Filter struct {
	Child         Node
	Column        *ColumnRef
	Op            FilterOp
	Value         any
	CaseSensitive bool
}

func NewFilter(child Node, column *ColumnRef, op FilterOp, value any, caseSensitive bool) *Filter {
	return &Filter{Child: child, Column: column, Op: op, Value: value, CaseSensitive: caseSensitive}
}

func (n *Filter) Kind() NodeKind   { return FilterKind }
func (n *Filter) Children() []Node { return []Node{n.Child} }
func (n *Filter) String() string {
	col := "line"
	if n.Column != nil {
		col = n.Column.String()
	}
	return fmt.Sprintf("Filter(%s %s %v, ci=%v)", col, n.Op, n.Value, !n.CaseSensitive)
}
func (*Filter) isNode() {}
func (n *Filter) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(FilterKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// equalPredicate reports whether two Filter nodes carry identical predicates,
// ignoring their children. Used by the redundancy-elimination optimizer
// pass to collapse two consecutive equal filters.
func (n *Filter) equalPredicate(o *Filter) bool {
	if n.Op != o.Op || n.CaseSensitive != o.CaseSensitive {
		return false
	}
	if (n.Column == nil) != (o.Column == nil) {
		return false
	}
	if n.Column != nil && !n.Column.Equal(*o.Column) {
		return false
	}
	return n.Value == o.Value
}

// EqualPredicate exports Filter.equalPredicate for use outside the package
// (the optimizer lives in planopt).
func (n *Filter) EqualPredicate(o *Filter) bool { return n.equalPredicate(o) }

// Select is an ordered column projection.
type Select struct {
	Child   Node
	Columns []ColumnRef
}

func NewSelect(child Node, columns []ColumnRef) (*Select, error) {
	if len(columns) == 0 {
		return nil, ErrBuild.New("select() requires at least one column")
	}
	return &Select{Child: child, Columns: append([]ColumnRef(nil), columns...)}, nil
}

func (n *Select) Kind() NodeKind   { return SelectKind }
func (n *Select) Children() []Node { return []Node{n.Child} }
func (n *Select) String() string   { return fmt.Sprintf("Select(%v)", n.Columns) }
func (*Select) isNode()            {}
func (n *Select) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(SelectKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// HasColumn reports whether col appears in the projection, by name or index.
func (n *Select) HasColumn(col ColumnRef) bool {
	for _, c := range n.Columns {
		if c.Equal(col) {
			return true
		}
	}
	return false
}

// GroupBy aggregates rows sharing a key into one output row per key.
type GroupBy struct {
	Child        Node
	Keys         []string
	Aggregations []Aggregation
}

func NewGroupBy(child Node, keys []string, aggs []Aggregation) (*GroupBy, error) {
	if len(keys) == 0 {
		return nil, ErrBuild.New("group_by() requires at least one key")
	}
	if len(aggs) == 0 {
		return nil, ErrBuild.New("agg() requires at least one aggregation")
	}
	seen := make(map[string]bool, len(aggs))
	normalized := make([]Aggregation, len(aggs))
	for i, a := range aggs {
		if a.Alias == "" {
			return nil, ErrBuild.New("aggregation alias must not be empty after normalization")
		}
		if seen[a.Alias] {
			return nil, ErrBuild.New(fmt.Sprintf("duplicate aggregation alias %q", a.Alias))
		}
		seen[a.Alias] = true
		// COUNT(*) normalizes to column=absent regardless of how the
		// builder spelled the wildcard.
		if a.Func == COUNT && a.Column != nil && a.Column.Name == "*" {
			a.Column = nil
		}
		normalized[i] = a
	}
	return &GroupBy{
		Child:        child,
		Keys:         append([]string(nil), keys...),
		Aggregations: normalized,
	}, nil
}

func (n *GroupBy) Kind() NodeKind   { return GroupByKind }
func (n *GroupBy) Children() []Node { return []Node{n.Child} }
func (n *GroupBy) String() string   { return fmt.Sprintf("GroupBy(keys=%v, aggs=%v)", n.Keys, n.Aggregations) }
func (*GroupBy) isNode()            {}
func (n *GroupBy) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(GroupByKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// OutputSchema returns the ordered output column names this GroupBy
// produces: every key, then every aggregation alias, matching spec.md §6's
// "output schema declaration" and used by the sort/distinct backend to
// resolve a named sort column to a 1-based index (spec.md §4.5.4, §9).
func (n *GroupBy) OutputSchema() []string {
	out := make([]string, 0, len(n.Keys)+len(n.Aggregations))
	out = append(out, n.Keys...)
	for _, a := range n.Aggregations {
		out = append(out, a.Alias)
	}
	return out
}

// Sort orders rows by one or more keys.
type Sort struct {
	Child   Node
	Keys    []SortKey
	Numeric bool
}

func NewSort(child Node, keys []SortKey, numeric bool) (*Sort, error) {
	if len(keys) == 0 {
		return nil, ErrBuild.New("sort() requires at least one key")
	}
	return &Sort{Child: child, Keys: append([]SortKey(nil), keys...), Numeric: numeric}, nil
}

func (n *Sort) Kind() NodeKind   { return SortKind }
func (n *Sort) Children() []Node { return []Node{n.Child} }
func (n *Sort) String() string   { return fmt.Sprintf("Sort(%v, numeric=%v)", n.Keys, n.Numeric) }
func (*Sort) isNode()            {}
func (n *Sort) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(SortKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// Limit slices the row stream to [offset, offset+count).
type Limit struct {
	Child  Node
	Count  int
	Offset int
}

func NewLimit(child Node, count, offset int) (*Limit, error) {
	if count < 1 {
		return nil, ErrBuild.New("limit count must be >= 1")
	}
	if offset < 0 {
		return nil, ErrBuild.New("limit offset must be >= 0")
	}
	return &Limit{Child: child, Count: count, Offset: offset}, nil
}

func (n *Limit) Kind() NodeKind   { return LimitKind }
func (n *Limit) Children() []Node { return []Node{n.Child} }
func (n *Limit) String() string   { return fmt.Sprintf("Limit(%d, offset=%d)", n.Count, n.Offset) }
func (*Limit) isNode()            {}
func (n *Limit) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(LimitKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// Distinct removes duplicate rows, optionally considering only Columns.
// Columns == nil means "compare whole rows".
type Distinct struct {
	Child   Node
	Columns []ColumnRef
}

func NewDistinct(child Node, columns []ColumnRef) *Distinct {
	var cp []ColumnRef
	if columns != nil {
		cp = append([]ColumnRef(nil), columns...)
	}
	return &Distinct{Child: child, Columns: cp}
}

func (n *Distinct) Kind() NodeKind   { return DistinctKind }
func (n *Distinct) Children() []Node { return []Node{n.Child} }
func (n *Distinct) String() string   { return fmt.Sprintf("Distinct(%v)", n.Columns) }
func (*Distinct) isNode()            {}
func (n *Distinct) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(DistinctKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// Parallel fans a child pipeline out across every file matching Source's
// glob, via find | xargs -P. Workers == nil means "use the CPU count".
type Parallel struct {
	Child   Node
	Workers *int
}

// globalStateKinds are the node kinds that require state across the whole
// input (spec.md §3: "must not contain Sort, Distinct, GroupBy, or Limit in
// its subtree — these require global state across files").
var globalStateKinds = map[NodeKind]bool{
	SortKind:     true,
	DistinctKind: true,
	GroupByKind:  true,
	LimitKind:    true,
}

func NewParallel(child Node, workers *int) (*Parallel, error) {
	var bad []Node
	Inspect(child, func(n Node) bool {
		if globalStateKinds[n.Kind()] {
			bad = append(bad, n)
		}
		return true
	})
	if len(bad) > 0 {
		return nil, ErrBuild.New(fmt.Sprintf("parallel() cannot wrap a pipeline containing %s: requires global state across files", bad[0].Kind()))
	}
	if workers != nil && *workers < 1 {
		w := 1
		workers = &w
	}
	return &Parallel{Child: child, Workers: workers}, nil
}

func (n *Parallel) Kind() NodeKind   { return ParallelKind }
func (n *Parallel) Children() []Node { return []Node{n.Child} }
func (n *Parallel) String() string {
	w := "auto"
	if n.Workers != nil {
		w = fmt.Sprint(*n.Workers)
	}
	return fmt.Sprintf("Parallel(workers=%s)", w)
}
func (*Parallel) isNode() {}
func (n *Parallel) WithChildren(children ...Node) (Node, error) {
	if len(children) != 1 {
		return nil, wrongArity(ParallelKind, 1, len(children))
	}
	cp := *n
	cp.Child = children[0]
	return &cp, nil
}

// Join combines two subtrees. Declared in the IR per spec.md §9 but
// deliberately unimplemented by any code generator backend; planopt's
// validation pass rejects any plan containing one.
type Join struct {
	Left, Right Node
	On          string
	How         JoinType
}

func NewJoin(left, right Node, on string, how JoinType) *Join {
	return &Join{Left: left, Right: right, On: on, How: how}
}

func (n *Join) Kind() NodeKind   { return JoinKind }
func (n *Join) Children() []Node { return []Node{n.Left, n.Right} }
func (n *Join) String() string   { return fmt.Sprintf("Join(on=%q, how=%s)", n.On, n.How) }
func (*Join) isNode()            {}
func (n *Join) WithChildren(children ...Node) (Node, error) {
	if len(children) != 2 {
		return nil, wrongArity(JoinKind, 2, len(children))
	}
	cp := *n
	cp.Left, cp.Right = children[0], children[1]
	return &cp, nil
}
