package normalizer

import (
	"strconv"

	"stockview/internal/core/odoo"
	"stockview/internal/core/types"
)

// Attribute is the view-model of a product attribute (product.attribute).
type Attribute struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	DisplayType      string           `json:"displayType"`
	VariantCreation  string           `json:"variantCreation"`
	FilterVisibility string           `json:"filterVisibility"`
	Values           []AttributeValue `json:"values"`
}

// AttributeValue is one selectable value of an attribute.
type AttributeValue struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Color      string      `json:"color,omitempty"`
	ExtraPrice types.Money `json:"extraPrice"`
	IsCustom   bool        `json:"isCustom"`
}

// NormalizeAttribute converts a raw product.attribute record.
//
// Values are read from value_ids (or values) and may be full objects,
// [id, label] tuples or bare ids. A value without an id gets a positional
// one derived from the attribute id so it stays addressable.
func NormalizeAttribute(raw any) (Attribute, error) {
	r, err := odoo.AsRecord("attribute", raw)
	if err != nil {
		return Attribute{}, err
	}

	a := Attribute{
		ID:               r.Many2OneID("id"),
		Name:             r.String("name"),
		DisplayType:      resolveOr(attributeDisplayTypes, r.String("display_type"), DisplayRadio),
		VariantCreation:  resolveOr(attributeVariantModes, r.String("create_variant"), VariantInstantly),
		FilterVisibility: resolveOr(attributeVisibility, r.String("visibility"), VisibilityVisible),
	}

	rawValues, _ := r.List("value_ids")
	if rawValues == nil {
		rawValues, _ = r.List("values")
	}
	a.Values = make([]AttributeValue, 0, len(rawValues))
	for i, rv := range rawValues {
		a.Values = append(a.Values, normalizeAttributeValue(a.ID, i, rv))
	}
	return a, nil
}

func normalizeAttributeValue(attributeID string, index int, raw any) AttributeValue {
	v := AttributeValue{ExtraPrice: types.Zero()}

	if r, ok := raw.(map[string]any); ok {
		rec := odoo.Record(r)
		v.ID = rec.Many2OneID("id")
		v.Name = rec.String("name")
		v.Color = rec.String("html_color")
		v.IsCustom = rec.Bool("is_custom", false)
		if price, ok := rec.First("default_extra_price", "price_extra"); ok {
			if d, ok := odoo.ToDecimal(price); ok {
				v.ExtraPrice = types.NonNegative(d)
			}
		}
	} else {
		v.ID = odoo.Many2OneID(raw)
		if _, isTuple := raw.([]any); isTuple {
			v.Name = odoo.FormatMany2One(raw)
		}
	}

	if v.ID == "" {
		v.ID = attributeID + ":" + strconv.Itoa(index)
	}
	return v
}

func (a Attribute) SearchFields() []string {
	fields := []string{a.Name, a.DisplayType}
	for _, v := range a.Values {
		fields = append(fields, v.Name)
	}
	return fields
}

func (a Attribute) FilterFields() map[string]any {
	return map[string]any{
		"id":               a.ID,
		"name":             a.Name,
		"displayType":      a.DisplayType,
		"variantCreation":  a.VariantCreation,
		"filterVisibility": a.FilterVisibility,
		"valueCount":       int64(len(a.Values)),
	}
}
