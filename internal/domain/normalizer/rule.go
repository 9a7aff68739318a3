package normalizer

import (
	"math"

	"stockview/internal/core/odoo"
)

// Rule is the view-model of a stock rule (stock.rule).
// Relational fields are reduced to their display labels.
type Rule struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ActionCode          string `json:"actionCode"`
	Action              string `json:"action"`
	SupplyMethod        string `json:"supplyMethod"`
	OperationType       string `json:"operationType"`
	SourceLocation      string `json:"sourceLocation"`
	DestinationLocation string `json:"destinationLocation"`
	Route               string `json:"route"`
	PartnerAddress      string `json:"partnerAddress"`
	Warehouse           string `json:"warehouse"`
	LeadTime            int    `json:"leadTime"`
	Active              bool   `json:"active"`
}

// NormalizeRule converts a raw stock.rule record.
// Older backends name the destination location_id instead of location_dest_id.
func NormalizeRule(raw any) (Rule, error) {
	r, err := odoo.AsRecord("rule", raw)
	if err != nil {
		return Rule{}, err
	}

	dest := r.Many2One("location_dest_id")
	if dest == "" {
		dest = r.Many2One("location_id")
	}

	action := r.String("action")
	return Rule{
		ID:                  r.Many2OneID("id"),
		Name:                r.String("name"),
		ActionCode:          action,
		Action:              RuleActionLabel(action),
		SupplyMethod:        ProcureMethodLabel(r.String("procure_method")),
		OperationType:       r.Many2One("picking_type_id"),
		SourceLocation:      r.Many2One("location_src_id"),
		DestinationLocation: dest,
		Route:               r.Many2One("route_id"),
		PartnerAddress:      r.Many2One("partner_address_id"),
		Warehouse:           r.Many2One("warehouse_id"),
		LeadTime:            leadTime(r),
		Active:              r.Bool("active", true),
	}, nil
}

// leadTime reads delay in days; anything non-numeric counts as zero.
func leadTime(r odoo.Record) int {
	f, ok := r.Float("delay")
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func (r Rule) SearchFields() []string {
	return []string{r.Name, r.Action, r.SourceLocation, r.DestinationLocation, r.Route, r.Warehouse}
}

func (r Rule) FilterFields() map[string]any {
	return map[string]any{
		"id":                  r.ID,
		"name":                r.Name,
		"actionCode":          r.ActionCode,
		"action":              r.Action,
		"supplyMethod":        r.SupplyMethod,
		"operationType":       r.OperationType,
		"sourceLocation":      r.SourceLocation,
		"destinationLocation": r.DestinationLocation,
		"route":               r.Route,
		"warehouse":           r.Warehouse,
		"leadTime":            int64(r.LeadTime),
		"active":              r.Active,
	}
}
