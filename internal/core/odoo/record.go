// Package odoo provides tolerant accessors over raw ERP records.
//
// Odoo serializes empty fields as false, relational (many2one) fields as
// [id, label] pairs, and numbers as whatever the JSON layer produced. Every
// read of a raw record goes through this package so the view-model layer never
// touches an untyped value directly.
package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"stockview/internal/core/apperror"
)

// Record is one raw backend record.
// Values are whatever encoding/json produced (preferably with UseNumber).
type Record map[string]any

// AsRecord accepts a decoded JSON object, a Record, or raw JSON bytes holding
// an object. Anything else is a structural failure.
func AsRecord(entity string, raw any) (Record, error) {
	switch v := raw.(type) {
	case Record:
		if v == nil {
			return nil, apperror.NewMalformedRecord(entity, "null")
		}
		return v, nil
	case map[string]any:
		if v == nil {
			return nil, apperror.NewMalformedRecord(entity, "null")
		}
		return Record(v), nil
	case json.RawMessage:
		return decodeRecord(entity, v)
	case []byte:
		return decodeRecord(entity, v)
	}
	return nil, apperror.NewMalformedRecord(entity, kindOf(raw))
}

func decodeRecord(entity string, data []byte) (Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, apperror.NewMalformedRecord(entity, rawKind(data))
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, apperror.NewMalformedRecord(entity, "invalid JSON").WithCause(err)
	}
	return Record(out), nil
}

// kindOf names the JSON kind of a decoded value.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64, int32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any, Record:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// rawKind names the JSON kind of undecoded, trimmed input by its first byte.
func rawKind(data []byte) string {
	if len(data) == 0 {
		return "empty input"
	}
	switch c := data[0]; {
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	}
	return "invalid JSON"
}

// DecodeList decodes a JSON array of raw records, preserving numeric precision.
// Elements are returned untouched so per-element validation stays with the caller.
func DecodeList(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out []any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Value returns the raw value for key, or nil.
func (r Record) Value(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// First returns the value of the first key that is present.
func (r Record) First(keys ...string) (any, bool) {
	for _, k := range keys {
		if v := r.Value(k); !IsAbsent(v) {
			return v, true
		}
	}
	return nil, false
}

// String returns the scalar value for key as a string, "" when absent.
func (r Record) String(key string) string {
	v := r.Value(key)
	if IsAbsent(v) {
		return ""
	}
	return Stringify(v)
}

// StringOr returns String(key) or def when that is empty.
func (r Record) StringOr(key, def string) string {
	if s := r.String(key); s != "" {
		return s
	}
	return def
}

// Float returns the numeric value for key.
func (r Record) Float(key string) (float64, bool) {
	return ToFloat(r.Value(key))
}

// FloatOr returns the numeric value for key or def.
func (r Record) FloatOr(key string, def float64) float64 {
	if f, ok := r.Float(key); ok {
		return f
	}
	return def
}

// Decimal returns the numeric value for key as an exact decimal.
func (r Record) Decimal(key string) (decimal.Decimal, bool) {
	return ToDecimal(r.Value(key))
}

// Bool returns the boolean value for key, def when absent or not a bool.
// Note false is a real value here, unlike for the other accessors.
func (r Record) Bool(key string, def bool) bool {
	if b, ok := r.Value(key).(bool); ok {
		return b
	}
	return def
}

// List returns the value for key when it is a JSON array.
func (r Record) List(key string) ([]any, bool) {
	l, ok := r.Value(key).([]any)
	return l, ok
}

// Many2One resolves the relational field at key to its display label.
func (r Record) Many2One(key string) string {
	return FormatMany2One(r.Value(key))
}

// Many2OneID resolves the relational field at key to its id.
func (r Record) Many2OneID(key string) string {
	return Many2OneID(r.Value(key))
}

// Date returns the first 10 characters (YYYY-MM-DD) of a date/datetime field.
// Characters, not bytes: a non-ASCII value is never cut mid-rune.
func (r Record) Date(key string) string {
	s := strings.TrimSpace(r.String(key))
	if utf8.RuneCountInString(s) <= 10 {
		return s
	}
	return string([]rune(s)[:10])
}

// IsAbsent reports whether v is the backend's notion of "no value".
func IsAbsent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	}
	return false
}

// Stringify renders a scalar the way a JavaScript String(v) call would:
// integers without a fraction, floats in shortest form.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

// ToFloat converts numbers and numeric strings to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToDecimal converts numbers and numeric strings to decimal.Decimal.
// json.Number and strings are parsed exactly.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	}
	if f, ok := ToFloat(v); ok {
		return decimal.NewFromFloat(f), true
	}
	return decimal.Zero, false
}
