// Package filter narrows lists of view-models the way the list pages do:
// free-text search, per-field conditions and CEL expressions.
package filter

// Subject is anything that can be searched and filtered.
// Every normalizer view-model satisfies it.
type Subject interface {
	SearchFields() []string
	FilterFields() map[string]any
}

// ComparisonType is a field comparison operator.
type ComparisonType string

const (
	Equal      ComparisonType = "eq"        // equal (strings case-insensitive)
	NotEqual   ComparisonType = "neq"       // not equal
	Greater    ComparisonType = "gt"        // numeric greater than
	Less       ComparisonType = "lt"        // numeric less than
	InList     ComparisonType = "in"        // one of a list
	Contains   ComparisonType = "contains"  // case-insensitive substring
	IsEmpty    ComparisonType = "empty"     // zero value ("" / 0 / false)
	IsNotEmpty ComparisonType = "not_empty" // anything but the zero value
)

// Item is one field condition.
type Item struct {
	Field    string         `json:"field"`    // view-model field name (camelCase)
	Operator ComparisonType `json:"operator"` // comparison
	Value    any            `json:"value"`    // string, number, bool or list
}

// Valid reports whether op is a known operator.
func (op ComparisonType) Valid() bool {
	switch op {
	case Equal, NotEqual, Greater, Less, InList, Contains, IsEmpty, IsNotEmpty:
		return true
	}
	return false
}
