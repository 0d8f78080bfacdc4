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
	"regexp"
	"strings"

	"github.com/kukula/shell-shark/format"
	"github.com/kukula/shell-shark/ir"
	"github.com/kukula/shell-shark/quoting"
	"github.com/kukula/shell-shark/toolprobe"
)

// awkSegment bundles everything a fused non-barrier run may contain, ready
// for the awk backend to assemble into one script (spec.md §4.5.2).
type awkSegment struct {
	parse   *ir.Parse
	filters []*ir.Filter // column-qualified only
	sel     *ir.Select
	groupBy *ir.GroupBy
	source  *ir.Source
}

func generateAWK(seg awkSegment, inputCmd string, includeSource bool) (string, error) {
	info, err := toolprobe.DetectAWK()
	if err != nil {
		return "", err
	}

	f, delimiter, hasHeader := ir.Text, "", false
	if seg.parse != nil {
		f, delimiter, hasHeader = seg.parse.Format, seg.parse.Delimiter, seg.parse.HasHeader
	}
	handler, err := format.New(f, delimiter, hasHeader)
	if err != nil {
		return "", err
	}

	var parts []string
	if pre := handler.HeaderPreamble(); pre != "" {
		parts = append(parts, pre)
	}

	var conditions []string
	for _, filt := range seg.filters {
		cond, err := filterToCondition(filt, handler)
		if err != nil {
			return "", err
		}
		conditions = append(conditions, cond)
	}
	condition := strings.Join(conditions, " && ")

	if seg.groupBy != nil {
		rowAction, endBlock, err := groupByAction(seg.groupBy, handler, delimiter)
		if err != nil {
			return "", err
		}
		if condition != "" {
			parts = append(parts, fmt.Sprintf("%s{%s}", condition, rowAction))
		} else {
			parts = append(parts, fmt.Sprintf("{%s}", rowAction))
		}
		parts = append(parts, endBlock)
	} else {
		action := selectToAction(seg.sel, handler, delimiter)
		if condition != "" {
			parts = append(parts, fmt.Sprintf("%s{%s}", condition, action))
		} else {
			parts = append(parts, fmt.Sprintf("{%s}", action))
		}
	}

	script := strings.Join(parts, " ")

	cmd := info.Path
	if fs := handler.FieldSeparator(); fs != "" {
		cmd += " -F" + quoting.ShellQuote(fs)
	}
	cmd += " " + quoting.ShellQuote(script)

	switch {
	case inputCmd != "":
		return inputCmd + " | " + cmd, nil
	case includeSource && seg.source != nil:
		return cmd + " " + quoting.ShellQuote(seg.source.Path), nil
	default:
		return cmd, nil
	}
}

func filterToCondition(f *ir.Filter, handler format.Handler) (string, error) {
	field := "$0"
	if f.Column != nil {
		ref, err := handler.FieldRef(*f.Column)
		if err != nil {
			return "", err
		}
		field = ref
	}

	str, isStr := f.Value.(string)
	valueLiteral := fmt.Sprint(f.Value)
	if isStr {
		valueLiteral = quoting.AWKString(str)
	}

	switch f.Op {
	case ir.EQ:
		return fmt.Sprintf("%s==%s", field, valueLiteral), nil
	case ir.NE:
		return fmt.Sprintf("%s!=%s", field, valueLiteral), nil
	case ir.LT:
		return fmt.Sprintf("%s<%s", field, valueLiteral), nil
	case ir.LE:
		return fmt.Sprintf("%s<=%s", field, valueLiteral), nil
	case ir.GT:
		return fmt.Sprintf("%s>%s", field, valueLiteral), nil
	case ir.GE:
		return fmt.Sprintf("%s>=%s", field, valueLiteral), nil
	case ir.CONTAINS:
		return fmt.Sprintf("index(%s,%s)>0", field, valueLiteral), nil
	case ir.STARTSWITH:
		return fmt.Sprintf("index(%s,%s)==1", field, valueLiteral), nil
	case ir.ENDSWITH:
		return fmt.Sprintf("substr(%s,length(%s)-length(%s)+1)==%s", field, field, valueLiteral, valueLiteral), nil
	case ir.REGEX:
		re, ok := f.Value.(string)
		if !ok {
			return "", ir.ErrCompile.New("REGEX filter value must be a string")
		}
		return fmt.Sprintf("%s~/%s/", field, quoting.AWKRegex(re)), nil
	default:
		return "", ir.ErrCompile.New(fmt.Sprintf("awk backend cannot handle filter op %s", f.Op))
	}
}

func selectToAction(sel *ir.Select, handler format.Handler, delimiter string) string {
	if sel == nil {
		return "print"
	}
	refs := make([]string, len(sel.Columns))
	for i, col := range sel.Columns {
		ref, err := handler.FieldRef(col)
		if err != nil {
			// Builder validation and earlier compile stages should have
			// already surfaced resolution errors; fall back to the raw
			// column name rather than panicking mid-assembly.
			ref = col.String()
		}
		refs[i] = ref
	}
	if len(refs) == 1 {
		return "print " + refs[0]
	}
	sep := delimiter
	if sep == "" {
		sep = " "
	}
	return "print " + strings.Join(refs, quoting.AWKString(sep)+" ")
}

// aggNameRE matches the characters sanitizeAggName replaces with '_'.
var aggNameRE = regexp.MustCompile(`[^A-Za-z0-9_]`)

// sanitizeAggName builds an awk array identifier for one aggregation:
// lowercase function prefix plus the alias/column with anything outside
// [A-Za-z0-9_] replaced by '_' (spec.md §4.5.2 item 5).
func sanitizeAggName(prefix, raw string) string {
	clean := aggNameRE.ReplaceAllString(raw, "_")
	return fmt.Sprintf("_%s_%s", strings.ToLower(prefix), clean)
}

// groupKeyExpr composes the per-row group key expression: a single key is
// its field reference; multiple keys are joined with awk's SUBSEP.
func groupKeyExpr(gb *ir.GroupBy, handler format.Handler) (string, error) {
	refs := make([]string, len(gb.Keys))
	for i, k := range gb.Keys {
		ref, err := handler.FieldRef(ir.Col(k))
		if err != nil {
			return "", err
		}
		refs[i] = ref
	}
	if len(refs) == 1 {
		return refs[0], nil
	}
	return "(" + strings.Join(refs, " SUBSEP ") + ")", nil
}

// groupByAction assembles the per-row update action and the END-block
// emission for a GroupBy's aggregations (spec.md §4.5.2 item 4). The two
// are returned separately since the row action nests inside the filter
// condition's braces while the END block is its own top-level awk rule.
func groupByAction(gb *ir.GroupBy, handler format.Handler, delimiter string) (rowAction, endBlock string, err error) {
	key, err := groupKeyExpr(gb, handler)
	if err != nil {
		return "", "", err
	}

	var updates []string
	updates = append(updates, fmt.Sprintf("_keys[%s]=1", key))

	outputExprs := make([]string, len(gb.Aggregations))
	for i, agg := range gb.Aggregations {
		name := sanitizeAggName(agg.Func.String(), agg.Alias)
		var fieldRef string
		if agg.Column != nil {
			fieldRef, err = handler.FieldRef(*agg.Column)
			if err != nil {
				return "", "", err
			}
		}

		switch agg.Func {
		case ir.COUNT:
			updates = append(updates, fmt.Sprintf("%s[%s]++", name, key))
			outputExprs[i] = fmt.Sprintf("%s[k]", name)
		case ir.SUM:
			updates = append(updates, fmt.Sprintf("%s[%s]+=%s", name, key, fieldRef))
			outputExprs[i] = fmt.Sprintf("%s[k]", name)
		case ir.AVG:
			sumName := name + "_sum"
			cntName := name + "_cnt"
			updates = append(updates, fmt.Sprintf("%s[%s]+=%s", sumName, key, fieldRef))
			updates = append(updates, fmt.Sprintf("%s[%s]++", cntName, key))
			outputExprs[i] = fmt.Sprintf("(%s[k]/%s[k])", sumName, cntName)
		case ir.MIN:
			seenName := name + "_seen"
			updates = append(updates, fmt.Sprintf("if(!(%s in %s)||%s<%s[%s]){%s[%s]=%s;%s[%s]=1}",
				key, seenName, fieldRef, name, key, name, key, fieldRef, seenName, key))
			outputExprs[i] = fmt.Sprintf("%s[k]", name)
		case ir.MAX:
			seenName := name + "_seen"
			updates = append(updates, fmt.Sprintf("if(!(%s in %s)||%s>%s[%s]){%s[%s]=%s;%s[%s]=1}",
				key, seenName, fieldRef, name, key, name, key, fieldRef, seenName, key))
			outputExprs[i] = fmt.Sprintf("%s[k]", name)
		case ir.FIRST:
			seenName := name + "_seen"
			updates = append(updates, fmt.Sprintf("if(!(%s in %s)){%s[%s]=%s;%s[%s]=1}",
				key, seenName, name, key, fieldRef, seenName, key))
			outputExprs[i] = fmt.Sprintf("%s[k]", name)
		case ir.LAST:
			updates = append(updates, fmt.Sprintf("%s[%s]=%s", name, key, fieldRef))
			outputExprs[i] = fmt.Sprintf("%s[k]", name)
		case ir.COUNTDISTINCT:
			cdName := name + "_cd"
			updates = append(updates, fmt.Sprintf("%s[%s,%s]=1", cdName, key, fieldRef))
			outputExprs[i] = fmt.Sprintf("%s_count", name)
		default:
			return "", "", ir.ErrCompile.New(fmt.Sprintf("unsupported aggregation function %s", agg.Func))
		}
	}

	sep := delimiter
	if sep == "" {
		sep = " "
	}
	sepLit := quoting.AWKString(sep)

	var endBuilder strings.Builder
	endBuilder.WriteString("END{for(k in _keys){")
	endBuilder.WriteString("n=split(k,_kp,SUBSEP);")
	for i := range gb.Keys {
		endBuilder.WriteString(fmt.Sprintf("kc%d=(n>1?_kp[%d]:k);", i+1, i+1))
	}
	for _, agg := range gb.Aggregations {
		if agg.Func == ir.COUNTDISTINCT {
			name := sanitizeAggName(agg.Func.String(), agg.Alias)
			endBuilder.WriteString(fmt.Sprintf("%s_count=0;for(ck in %s_cd){split(ck,_ckp,SUBSEP);if(_ckp[1]==k)%s_count++};",
				name, name, name))
		}
	}
	lineParts := make([]string, 0, len(gb.Keys)+len(outputExprs))
	for i := range gb.Keys {
		lineParts = append(lineParts, fmt.Sprintf("kc%d", i+1))
	}
	lineParts = append(lineParts, outputExprs...)
	endBuilder.WriteString(fmt.Sprintf("print %s", strings.Join(lineParts, sepLit+" ")))
	endBuilder.WriteString("}}")

	rowAction = strings.Join(updates, ";")
	endBlock = endBuilder.String()
	return rowAction, endBlock, nil
}
