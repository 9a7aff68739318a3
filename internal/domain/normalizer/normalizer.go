// Package normalizer converts raw ERP records into typed view-models.
//
// Every normalizer is a pure function of its input: no I/O, no shared mutable
// state, no mutation of the raw record. Missing or oddly typed fields degrade
// to documented defaults; only an input that is not an object at all is
// reported as an error, so callers can drop that one record and keep the rest.
package normalizer

import (
	"sort"

	"stockview/internal/core/apperror"
)

// Entity names a normalizable collection.
type Entity string

const (
	EntityAttributes   Entity = "attributes"
	EntityOperations   Entity = "operations"
	EntityTransfers    Entity = "transfers"
	EntityRules        Entity = "rules"
	EntityScraps       Entity = "scraps"
	EntityPackageTypes Entity = "package-types"
	EntityValuation    Entity = "valuation"
)

// View is implemented by every view-model.
type View interface {
	// SearchFields lists the values free-text search looks at.
	SearchFields() []string
	// FilterFields exposes the view-model as plain values for field filters.
	FilterFields() map[string]any
}

// RecordError describes one record that could not be normalized.
type RecordError struct {
	Index   int    `json:"index"`
	Source  string `json:"source,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResult holds the outcome of normalizing a list of raw records.
// Items keep input order; Errors are tagged with the input index.
type BatchResult[T any] struct {
	Items  []T           `json:"items"`
	Errors []RecordError `json:"errors"`
}

// Batch normalizes every element of raws independently.
// One malformed element never aborts the others.
func Batch[T any](raws []any, normalize func(any) (T, error)) BatchResult[T] {
	res := BatchResult[T]{
		Items:  make([]T, 0, len(raws)),
		Errors: []RecordError{},
	}
	for i, raw := range raws {
		item, err := normalize(raw)
		if err != nil {
			res.Errors = append(res.Errors, newRecordError(i, "", err))
			continue
		}
		res.Items = append(res.Items, item)
	}
	return res
}

func newRecordError(index int, source string, err error) RecordError {
	re := RecordError{Index: index, Source: source, Code: apperror.CodeOf(err), Message: err.Error()}
	if appErr, ok := apperror.AsAppError(err); ok {
		re.Message = appErr.Message
	}
	return re
}

// Func is a type-erased single-record normalizer.
type Func func(raw any) (View, error)

func erase[T View](fn func(any) (T, error)) Func {
	return func(raw any) (View, error) {
		v, err := fn(raw)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

var registry = map[Entity]Func{
	EntityAttributes:   erase(NormalizeAttribute),
	EntityOperations:   erase(NormalizePickingType),
	EntityTransfers:    erase(NormalizePicking),
	EntityRules:        erase(NormalizeRule),
	EntityScraps:       erase(NormalizeScrap),
	EntityPackageTypes: erase(NormalizePackageType),
}

// Lookup returns the normalizer for a single-record entity.
// Valuation is derived from two collections and is not listed here.
func Lookup(entity Entity) (Func, bool) {
	fn, ok := registry[entity]
	return fn, ok
}

// Entities lists the single-record entities in a stable order.
func Entities() []Entity {
	out := make([]Entity, 0, len(registry))
	for e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NormalizeList normalizes raws with the normalizer registered for entity.
func NormalizeList(entity Entity, raws []any) (BatchResult[View], error) {
	fn, ok := Lookup(entity)
	if !ok {
		return BatchResult[View]{}, apperror.NewUnknownEntity(string(entity))
	}
	return Batch(raws, fn), nil
}
