// Package actor provides actor name parsing and matching for lookups.
package actor

import (
	"sort"
	"strings"
)

// Query represents a parsed actor name lookup.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// ParseQuery parses a name lookup string into a structured Query.
//
// Supported formats:
//   - "Bacon"         → last="Bacon"
//   - "Kevin Bacon"   → first="Kevin", last="Bacon"
//   - "Bacon, Kevin"  → first="Kevin", last="Bacon"
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if last, first, ok := strings.Cut(input, ","); ok && strings.TrimSpace(last) != "" {
		return Query{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Query{Last: parts[0]}
	}
	return Query{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// Matches reports whether the query matches a full actor name such as
// "Kevin Bacon". The last name must match exactly (case-insensitive) and the
// first name, if given, is a case-insensitive prefix.
func (q Query) Matches(name string) bool {
	if q.Last == "" {
		return false
	}
	full := ParseQuery(name)
	if !strings.EqualFold(q.Last, full.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(full.First), strings.ToLower(q.First))
}

// Suggest returns up to limit names that the input could have meant, sorted.
// Names matching the parsed query come first; if there are none, names that
// contain the input case-insensitively are used instead. A limit <= 0 means
// no limit.
func Suggest(names []string, input string, limit int) []string {
	q := ParseQuery(input)
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return []string{}
	}

	var matched, contained []string
	for _, n := range names {
		switch {
		case q.Matches(n):
			matched = append(matched, n)
		case strings.Contains(strings.ToLower(n), needle):
			contained = append(contained, n)
		}
	}

	out := matched
	if len(out) == 0 {
		out = contained
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []string{}
	}
	return out
}
