package filter

import (
	"strconv"
	"strings"

	"stockview/internal/core/apperror"
	"stockview/internal/core/odoo"
)

// Query combines every supported narrowing step. Zero value keeps everything.
type Query struct {
	Search     string
	Items      []Item
	Expression *Expression
}

// IsZero reports whether the query filters nothing.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && len(q.Items) == 0 && q.Expression == nil
}

// Apply returns the subjects matching q, preserving order.
// The input slice is never modified.
func Apply[T Subject](subjects []T, q Query) ([]T, error) {
	if q.IsZero() {
		return subjects, nil
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]T, 0, len(subjects))
	for _, s := range subjects {
		if needle != "" && !matchesSearch(s, needle) {
			continue
		}
		if len(q.Items) > 0 && !MatchItems(s, q.Items) {
			continue
		}
		if q.Expression != nil {
			ok, err := q.Expression.Match(s)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// Search keeps subjects with any search field containing query, ignoring case.
func Search[T Subject](subjects []T, query string) []T {
	out, _ := Apply(subjects, Query{Search: query})
	return out
}

func matchesSearch(s Subject, needle string) bool {
	for _, f := range s.SearchFields() {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// MatchItems reports whether s satisfies every item.
// A field the view-model does not expose never matches.
func MatchItems(s Subject, items []Item) bool {
	fields := s.FilterFields()
	for _, it := range items {
		v, ok := fields[it.Field]
		if !ok || !matchItem(v, it) {
			return false
		}
	}
	return true
}

func matchItem(v any, it Item) bool {
	switch it.Operator {
	case Equal:
		return equalValues(v, it.Value)
	case NotEqual:
		return !equalValues(v, it.Value)
	case Greater, Less:
		a, okA := odoo.ToFloat(v)
		b, okB := odoo.ToFloat(it.Value)
		if !okA || !okB {
			return false
		}
		if it.Operator == Greater {
			return a > b
		}
		return a < b
	case InList:
		for _, candidate := range listValues(it.Value) {
			if equalValues(v, candidate) {
				return true
			}
		}
		return false
	case Contains:
		return strings.Contains(strings.ToLower(odoo.Stringify(v)), strings.ToLower(odoo.Stringify(it.Value)))
	case IsEmpty:
		return isEmpty(v)
	case IsNotEmpty:
		return !isEmpty(v)
	}
	return false
}

// equalValues compares a view-model field with a filter value that may have
// arrived as a string (query parameters always do).
func equalValues(field, want any) bool {
	switch f := field.(type) {
	case string:
		return strings.EqualFold(f, odoo.Stringify(want))
	case bool:
		switch w := want.(type) {
		case bool:
			return f == w
		case string:
			b, err := strconv.ParseBool(w)
			return err == nil && f == b
		}
		return false
	}
	a, okA := odoo.ToFloat(field)
	b, okB := odoo.ToFloat(want)
	return okA && okB && a == b
}

func listValues(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case string:
		parts := strings.Split(t, "|")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return out
	}
	return []any{v}
}

func isEmpty(v any) bool {
	if odoo.IsAbsent(v) {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	f, ok := odoo.ToFloat(v)
	return ok && f == 0
}

// ParseItem parses the "field:operator:value" query syntax.
// The value may itself contain colons; "in" lists are separated by "|".
func ParseItem(raw string) (Item, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return Item{}, apperror.NewValidation("filter must look like field:operator:value").
			WithDetail("filter", raw)
	}
	it := Item{Field: parts[0], Operator: ComparisonType(parts[1])}
	if !it.Operator.Valid() {
		return Item{}, apperror.NewValidation("unknown filter operator").
			WithDetail("operator", parts[1])
	}
	if len(parts) == 3 {
		it.Value = parts[2]
	} else if it.Operator != IsEmpty && it.Operator != IsNotEmpty {
		return Item{}, apperror.NewValidation("filter value is required").
			WithDetail("filter", raw)
	}
	return it, nil
}

// ParseItems parses every raw filter, stopping at the first invalid one.
func ParseItems(raws []string) ([]Item, error) {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		it, err := ParseItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
