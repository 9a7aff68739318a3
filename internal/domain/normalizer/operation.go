package normalizer

import "stockview/internal/core/odoo"

// Operation is the view-model of a picking type (stock.picking.type).
// Relational ids are plain strings, never tuples; "" means unset.
type Operation struct {
	ID                           string `json:"id"`
	Name                         string `json:"name"`
	Code                         string `json:"code"`
	DisplayCode                  string `json:"displayCode"`
	SequenceCode                 string `json:"sequenceCode"`
	WarehouseID                  string `json:"warehouseId"`
	Warehouse                    string `json:"warehouse"`
	DefaultSourceLocationID      string `json:"defaultSourceLocationId"`
	DefaultSourceLocation        string `json:"defaultSourceLocation"`
	DefaultDestinationLocationID string `json:"defaultDestinationLocationId"`
	DefaultDestinationLocation   string `json:"defaultDestinationLocation"`
	ReturnTypeID                 string `json:"returnTypeId"`
	ReturnType                   string `json:"returnType"`
	Active                       bool   `json:"active"`
}

// NormalizePickingType converts a raw stock.picking.type record.
func NormalizePickingType(raw any) (Operation, error) {
	r, err := odoo.AsRecord("operation", raw)
	if err != nil {
		return Operation{}, err
	}

	code := r.String("code")
	return Operation{
		ID:                           r.Many2OneID("id"),
		Name:                         r.String("name"),
		Code:                         code,
		DisplayCode:                  PickingTypeLabel(code),
		SequenceCode:                 r.String("sequence_code"),
		WarehouseID:                  r.Many2OneID("warehouse_id"),
		Warehouse:                    r.Many2One("warehouse_id"),
		DefaultSourceLocationID:      r.Many2OneID("default_location_src_id"),
		DefaultSourceLocation:        r.Many2One("default_location_src_id"),
		DefaultDestinationLocationID: r.Many2OneID("default_location_dest_id"),
		DefaultDestinationLocation:   r.Many2One("default_location_dest_id"),
		ReturnTypeID:                 r.Many2OneID("return_picking_type_id"),
		ReturnType:                   r.Many2One("return_picking_type_id"),
		Active:                       r.Bool("active", true),
	}, nil
}

func (o Operation) SearchFields() []string {
	return []string{o.Name, o.DisplayCode, o.SequenceCode, o.Warehouse}
}

func (o Operation) FilterFields() map[string]any {
	return map[string]any{
		"id":           o.ID,
		"name":         o.Name,
		"code":         o.Code,
		"displayCode":  o.DisplayCode,
		"sequenceCode": o.SequenceCode,
		"warehouseId":  o.WarehouseID,
		"warehouse":    o.Warehouse,
		"active":       o.Active,
	}
}
