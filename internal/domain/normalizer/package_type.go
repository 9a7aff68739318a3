package normalizer

import (
	"strconv"
	"strings"

	"stockview/internal/core/odoo"
)

// PackageType is the view-model of a package type (stock.package.type).
//
// Dimensions, weights and barcode are display strings: "-" marks a value the
// backend does not know, which is different from a measured zero ("0").
type PackageType struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Height      string `json:"height"`
	Width       string `json:"width"`
	Length      string `json:"length"`
	Weight      string `json:"weight"`
	MaxWeight   string `json:"maxWeight"`
	Barcode     string `json:"barcode"`
	Carrier     string `json:"carrier"`
	CarrierCode string `json:"carrierCode"`
}

// NormalizePackageType converts a raw stock.package.type record.
func NormalizePackageType(raw any) (PackageType, error) {
	r, err := odoo.AsRecord("package type", raw)
	if err != nil {
		return PackageType{}, err
	}

	carrier := NoCarrier
	if v, ok := r.First("carrier", "package_carrier_type", "delivery_carrier_id"); ok {
		if label := odoo.FormatMany2One(v); label != "" && !strings.EqualFold(label, "none") {
			carrier = label
		}
	}

	return PackageType{
		ID:          r.Many2OneID("id"),
		DisplayName: r.StringOr("name", r.String("display_name")),
		Height:      measure(r, "height"),
		Width:       measure(r, "width"),
		Length:      measure(r, "packaging_length", "length"),
		Weight:      measure(r, "base_weight", "weight"),
		MaxWeight:   measure(r, "max_weight"),
		Barcode:     firstString(r, "barcode", "x_barcode"),
		Carrier:     carrier,
		CarrierCode: r.String("shipper_package_code"),
	}, nil
}

// measure renders the first present numeric key, or Unknown.
func measure(r odoo.Record, keys ...string) string {
	v, ok := r.First(keys...)
	if !ok {
		return Unknown
	}
	f, ok := odoo.ToFloat(v)
	if !ok {
		return Unknown
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func firstString(r odoo.Record, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(r.String(k)); s != "" {
			return s
		}
	}
	return Unknown
}

func (p PackageType) SearchFields() []string {
	return []string{p.DisplayName, p.Barcode, p.Carrier}
}

func (p PackageType) FilterFields() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"displayName": p.DisplayName,
		"height":      p.Height,
		"width":       p.Width,
		"length":      p.Length,
		"weight":      p.Weight,
		"maxWeight":   p.MaxWeight,
		"barcode":     p.Barcode,
		"carrier":     p.Carrier,
		"carrierCode": p.CarrierCode,
	}
}
