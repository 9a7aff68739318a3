package odoo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMany2One(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "tuple", in: []any{12.0, "WH/Stock"}, want: "WH/Stock"},
		{name: "tuple json number", in: []any{json.Number("12"), "WH/Stock"}, want: "WH/Stock"},
		{name: "single element", in: []any{"lonely"}, want: "lonely"},
		{name: "empty list", in: []any{}, want: ""},
		{name: "object name", in: map[string]any{"id": 3.0, "name": "Main"}, want: "Main"},
		{name: "object display_name", in: map[string]any{"display_name": "WH: Main"}, want: "WH: Main"},
		{name: "object without label", in: map[string]any{"id": 3.0}, want: ""},
		{name: "nil", in: nil, want: ""},
		{name: "false", in: false, want: ""},
		{name: "bare int", in: 42, want: "42"},
		{name: "bare float", in: 42.0, want: "42"},
		{name: "bare string", in: "Vendors", want: "Vendors"},
		{name: "true", in: true, want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMany2One(tt.in))
		})
	}
}

func TestMany2OneID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "tuple", in: []any{12.0, "WH/Stock"}, want: "12"},
		{name: "tuple with false id", in: []any{false, "x"}, want: ""},
		{name: "empty list", in: []any{}, want: ""},
		{name: "object", in: map[string]any{"id": json.Number("7")}, want: "7"},
		{name: "nil", in: nil, want: ""},
		{name: "false", in: false, want: ""},
		{name: "bare id", in: 9.0, want: "9"},
		{name: "string id", in: "abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Many2OneID(tt.in))
		})
	}
}

func TestMany2ManyIDs(t *testing.T) {
	ids := Many2ManyIDs([]any{1.0, []any{2.0, "two"}, map[string]any{"id": 3.0}, false})
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Nil(t, Many2ManyIDs(false))
}
