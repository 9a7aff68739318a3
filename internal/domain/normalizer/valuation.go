package normalizer

import (
	"stockview/internal/core/odoo"
	"stockview/internal/core/types"
)

// ValuationLine is the stock valuation of one product across all its quants.
type ValuationLine struct {
	ProductID  string         `json:"productId"`
	Product    string         `json:"product"`
	Reference  string         `json:"reference"`
	Category   string         `json:"category"`
	Unit       string         `json:"unit"`
	Quantity   types.Quantity `json:"quantity"`
	UnitValue  types.Money    `json:"unitValue"`
	TotalValue types.Money    `json:"totalValue"`
}

// Sources tagged on valuation errors.
const (
	SourceQuants   = "quants"
	SourceProducts = "products"
)

// NormalizeValuation derives valuation lines from stock.quant and
// product.product records.
//
// Quants are summed per product id in one pass, then products are walked once
// in input order. A product id seen twice yields one line; products whose
// summed quantity is not strictly positive are left out, as are quants whose
// product is not in products.
func NormalizeValuation(quants, products []any) BatchResult[ValuationLine] {
	res := BatchResult[ValuationLine]{
		Items:  []ValuationLine{},
		Errors: []RecordError{},
	}

	// Summed as exact decimals: no overflow, no rounding of small amounts.
	onHand := make(map[string]types.Quantity, len(quants))
	for i, raw := range quants {
		q, err := odoo.AsRecord("quant", raw)
		if err != nil {
			res.Errors = append(res.Errors, newRecordError(i, SourceQuants, err))
			continue
		}
		productID := q.Many2OneID("product_id")
		if productID == "" {
			continue
		}
		onHand[productID] = onHand[productID].Add(quantQuantity(q))
	}

	emitted := make(map[string]struct{}, len(products))
	for i, raw := range products {
		p, err := odoo.AsRecord("product", raw)
		if err != nil {
			res.Errors = append(res.Errors, newRecordError(i, SourceProducts, err))
			continue
		}
		productID := p.Many2OneID("id")
		if _, seen := emitted[productID]; seen {
			continue
		}
		qty := onHand[productID]
		if !qty.IsPositive() {
			continue
		}
		emitted[productID] = struct{}{}
		res.Items = append(res.Items, valuationLine(p, productID, qty))
	}
	return res
}

// quantQuantity prefers available_quantity and falls back to quantity.
func quantQuantity(q odoo.Record) types.Quantity {
	for _, key := range []string{"available_quantity", "quantity"} {
		if d, ok := q.Decimal(key); ok {
			return types.NewQuantity(d)
		}
	}
	return types.Quantity{}
}

func valuationLine(p odoo.Record, productID string, qty types.Quantity) ValuationLine {
	unitValue := types.Zero()
	if v, ok := p.First("standard_price", "cost"); ok {
		if d, ok := odoo.ToDecimal(v); ok {
			unitValue = d
		}
	}

	name := p.String("display_name")
	if name == "" {
		name = p.String("name")
	}

	category := p.Many2One("categ_id")
	if category == "" {
		category = Uncategorized
	}

	return ValuationLine{
		ProductID:  productID,
		Product:    name,
		Reference:  p.String("default_code"),
		Category:   category,
		Unit:       p.Many2One("uom_id"),
		Quantity:   qty,
		UnitValue:  unitValue,
		TotalValue: qty.Mul(unitValue),
	}
}

func (v ValuationLine) SearchFields() []string {
	return []string{v.Product, v.Reference, v.Category}
}

func (v ValuationLine) FilterFields() map[string]any {
	return map[string]any{
		"productId":  v.ProductID,
		"product":    v.Product,
		"reference":  v.Reference,
		"category":   v.Category,
		"unit":       v.Unit,
		"quantity":   v.Quantity.Float64(),
		"unitValue":  v.UnitValue.InexactFloat64(),
		"totalValue": v.TotalValue.InexactFloat64(),
	}
}
