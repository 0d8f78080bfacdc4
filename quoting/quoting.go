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

// Package quoting holds every string-escaping routine the code generator
// needs to embed a user-supplied value safely in a generated shell
// command: POSIX shell quoting, awk string-literal escaping, awk regex
// escaping, ERE metacharacter escaping, and jq string-literal escaping.
// Keeping all of it in one small, dependency-free package means every
// backend escapes the same way (spec.md §4.5.6: "no value may enable shell
// injection"). The package has no test file of its own; the codegen tests
// exercise it through the commands they compile.
package quoting

import "strings"

// ShellQuote wraps s in single quotes, POSIX shell style, escaping any
// single quote in s as '\'' (close quote, escaped quote, reopen quote).
// This is the only shell-quoting strategy used anywhere in code
// generation: every path, pattern, delimiter and literal that reaches the
// final command string goes through ShellQuote.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// AWKString renders s as an awk double-quoted string literal, surrounding
// quotes included, escaping backslash, double quote, newline and tab.
func AWKString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// AWKRegex escapes s for embedding between a pair of awk regex slashes
// (field ~ /.../): only '/' and '\' need escaping there, everything else
// is passed through so the ERE metacharacters the caller intended still
// work.
func AWKRegex(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '/':
			b.WriteString(`\/`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ereSpecial is every ERE metacharacter STARTSWITH/ENDSWITH must escape
// before anchoring a literal value with ^ or $ (spec.md §4.5.1).
const ereSpecial = `\.^$*+?{}[]|()`

// EscapeERELiteral escapes every ERE metacharacter in s so it matches only
// itself, for use inside an anchored extended-regex pattern.
func EscapeERELiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(ereSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JQString renders s as a jq double-quoted string literal, escaping
// backslash and double quote.
func JQString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
