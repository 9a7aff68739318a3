package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/core/types"
)

func TestNormalizeAttribute(t *testing.T) {
	raw := map[string]any{
		"id":             7.0,
		"name":           "Color",
		"display_type":   "color",
		"create_variant": "dynamic",
		"visibility":     "hidden",
		"value_ids": []any{
			map[string]any{"id": 1.0, "name": "Red", "html_color": "#ff0000", "default_extra_price": 2.5},
			map[string]any{"name": "Blue", "price_extra": -4.0, "is_custom": true},
			[]any{3.0, "Green"},
			9.0,
		},
	}

	got, err := NormalizeAttribute(raw)
	require.NoError(t, err)

	assert.Equal(t, "7", got.ID)
	assert.Equal(t, "Color", got.Name)
	assert.Equal(t, DisplayColor, got.DisplayType)
	assert.Equal(t, VariantDynamically, got.VariantCreation)
	assert.Equal(t, VisibilityHidden, got.FilterVisibility)
	require.Len(t, got.Values, 4)

	assert.Equal(t, "1", got.Values[0].ID)
	assert.Equal(t, "#ff0000", got.Values[0].Color)
	assert.True(t, got.Values[0].ExtraPrice.Equal(types.NewMoney(2.5)))

	assert.Equal(t, "7:1", got.Values[1].ID, "missing value id falls back to a positional one")
	assert.True(t, got.Values[1].ExtraPrice.IsZero(), "negative extra price is clamped")
	assert.True(t, got.Values[1].IsCustom)

	assert.Equal(t, "3", got.Values[2].ID)
	assert.Equal(t, "Green", got.Values[2].Name)

	assert.Equal(t, "9", got.Values[3].ID)
	for _, v := range got.Values {
		assert.NotEmpty(t, v.ID)
		assert.False(t, v.ExtraPrice.IsNegative())
	}
}

func TestNormalizeAttribute_Defaults(t *testing.T) {
	got, err := NormalizeAttribute(map[string]any{"name": "Size"})
	require.NoError(t, err)

	assert.Equal(t, DisplayRadio, got.DisplayType)
	assert.Equal(t, VariantInstantly, got.VariantCreation)
	assert.Equal(t, VisibilityVisible, got.FilterVisibility)
	assert.NotNil(t, got.Values)
	assert.Empty(t, got.Values)
}

func TestNormalizeAttribute_EnumMapping(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"radio", DisplayRadio},
		{"pills", DisplayPills},
		{"select", DisplaySelect},
		{"color", DisplayColor},
		{"multi", DisplayMultiCheckbox},
		{"image", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := NormalizeAttribute(map[string]any{"display_type": tt.code})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.DisplayType)
		})
	}

	got, err := NormalizeAttribute(map[string]any{"create_variant": "no_variant", "values": []any{}})
	require.NoError(t, err)
	assert.Equal(t, VariantNever, got.VariantCreation)
}
