package models

import (
	"fmt"
	"strings"
)

// MatchRule selects how a cell value is compared with a search query.
type MatchRule string

const (
	// MatchExact requires the lowercased cell text to equal the lowercased query.
	MatchExact MatchRule = "exact"
	// MatchContains requires the lowercased cell text to contain the lowercased query.
	MatchContains MatchRule = "contains"
)

// ParseMatchRule parses s into a MatchRule. Empty s yields def.
func ParseMatchRule(s string, def MatchRule) (MatchRule, error) {
	switch MatchRule(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case MatchExact:
		return MatchExact, nil
	case MatchContains:
		return MatchContains, nil
	}
	return "", fmt.Errorf("unknown match rule %q (use exact or contains)", s)
}

// Matches reports whether value matches query under the rule. Blank values
// and zero-valued cells never match, and neither does an empty query.
func (r MatchRule) Matches(value any, query string) bool {
	if query == "" || IsBlank(value) || isZero(value) {
		return false
	}
	text := strings.ToLower(FormatValue(value))
	q := strings.ToLower(query)
	if r == MatchContains {
		return strings.Contains(text, q)
	}
	return text == q
}

// MatchesRow reports whether any attribute of row matches query.
func (r MatchRule) MatchesRow(row Row, query string) bool {
	for _, c := range row.Cells {
		if r.Matches(c.Value, query) {
			return true
		}
	}
	return false
}

func isZero(v any) bool {
	switch x := v.(type) {
	case int64:
		return x == 0
	case int:
		return x == 0
	case float64:
		return x == 0
	case bool:
		return !x
	}
	return false
}
