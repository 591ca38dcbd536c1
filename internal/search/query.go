// Package search parses index queries and matches them against entries.
//
//	"foo"              name contains foo
//	"src/app"          full path contains src/app
//	"*.go"             name glob
//	"ext:go"           extension is .go
//	"name:readme"      name contains readme
//	"size:>1MB"        size comparison (files only)
//	"modified:>2024-01-01" or "modified:>week"
//
// Every term must match.
package search

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/justyntemme/twinpane/internal/fs"
)

// TermKind selects what a term tests.
type TermKind int

const (
	TermName TermKind = iota
	TermPath
	TermExt
	TermSize
	TermModified
)

// Operator is the comparison used by size and modified terms.
type Operator int

const (
	OpEquals Operator = iota
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
)

// Term is one whitespace-separated piece of a query.
type Term struct {
	Kind     TermKind
	Value    string // lowercased pattern for name/path/ext
	Operator Operator
	Number   int64     // size in bytes
	Time     time.Time // modified bound
}

// Query is a parsed query string.
type Query struct {
	Raw   string
	Terms []Term
}

// Parse splits input on unquoted spaces and classifies each piece. now
// anchors relative dates such as "today" or "week".
func Parse(input string, now time.Time) Query {
	q := Query{Raw: input}
	for _, part := range splitFields(strings.TrimSpace(input)) {
		q.Terms = append(q.Terms, parseTerm(part, now))
	}
	return q
}

// IsEmpty reports whether the query has no terms.
func (q Query) IsEmpty() bool { return len(q.Terms) == 0 }

func splitFields(s string) []string {
	var parts []string
	var cur strings.Builder
	var quote rune

	for _, r := range s {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case r == quote:
			quote = 0
		case r == ' ' && quote == 0:
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func parseTerm(s string, now time.Time) Term {
	if idx := strings.Index(s, ":"); idx > 0 {
		value := strings.Trim(s[idx+1:], "\"'")
		switch strings.ToLower(s[:idx]) {
		case "name", "file", "filename":
			return Term{Kind: TermName, Value: strings.ToLower(value)}
		case "path":
			return Term{Kind: TermPath, Value: strings.ToLower(value)}
		case "ext", "extension":
			return Term{Kind: TermExt, Value: strings.ToLower(strings.TrimPrefix(value, "."))}
		case "size":
			op, rest := parseOperator(value)
			return Term{Kind: TermSize, Operator: op, Number: parseSize(rest)}
		case "modified", "date":
			op, rest := parseOperator(value)
			return Term{Kind: TermModified, Operator: op, Time: parseDate(rest, now)}
		}
	}

	lower := strings.ToLower(s)
	if strings.ContainsAny(lower, `/\`) {
		return Term{Kind: TermPath, Value: lower}
	}
	return Term{Kind: TermName, Value: lower}
}

func parseOperator(s string) (Operator, string) {
	s = strings.TrimSpace(s)
	for _, p := range []struct {
		prefix string
		op     Operator
	}{
		{">=", OpGreaterEq},
		{"<=", OpLessEq},
		{">", OpGreater},
		{"<", OpLess},
		{"=", OpEquals},
	} {
		if strings.HasPrefix(s, p.prefix) {
			return p.op, strings.TrimSpace(s[len(p.prefix):])
		}
	}
	return OpEquals, s
}

// parseSize reads "512", "10KB", "1.5MB", "2GB". Garbage parses as 0.
func parseSize(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	mult := int64(1)
	for _, u := range []struct {
		suffix string
		mult   int64
	}{
		{"TB", 1 << 40},
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSuffix(s, u.suffix)
			break
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(n * float64(mult))
}

func parseDate(s string, now time.Time) time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	switch s {
	case "today":
		return day(now)
	case "yesterday":
		return day(now.AddDate(0, 0, -1))
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006/01/02", "2006"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Match reports whether e satisfies every term.
func (q Query) Match(e fs.Entry) bool {
	for _, t := range q.Terms {
		if !t.match(e) {
			return false
		}
	}
	return true
}

func (t Term) match(e fs.Entry) bool {
	switch t.Kind {
	case TermName:
		return matchGlob(strings.ToLower(e.Name), t.Value)
	case TermPath:
		return matchGlob(strings.ToLower(filepath.ToSlash(e.Path)), filepath.ToSlash(t.Value))
	case TermExt:
		return !e.IsDir && strings.ToLower(e.Extension) == t.Value
	case TermSize:
		if e.IsDir || e.Size == nil {
			return false
		}
		return compare(*e.Size, t.Number, t.Operator)
	case TermModified:
		if t.Time.IsZero() {
			return true
		}
		if e.Modified == nil {
			return false
		}
		mod := time.Unix(*e.Modified, 0)
		if t.Operator == OpEquals {
			y1, m1, d1 := mod.In(t.Time.Location()).Date()
			y2, m2, d2 := t.Time.Date()
			return y1 == y2 && m1 == m2 && d1 == d2
		}
		return compare(mod.Unix(), t.Time.Unix(), t.Operator)
	}
	return true
}

// matchGlob is a substring test unless pattern holds '*'.
func matchGlob(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(name, pattern)
	}
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	pos := len(parts[0])
	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(name[pos:], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}
	return len(name)-pos >= len(last) && strings.HasSuffix(name, last)
}

func compare(val, target int64, op Operator) bool {
	switch op {
	case OpGreater:
		return val > target
	case OpLess:
		return val < target
	case OpGreaterEq:
		return val >= target
	case OpLessEq:
		return val <= target
	default:
		return val == target
	}
}
