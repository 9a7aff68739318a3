package normalizer

import "stockview/internal/core/odoo"

// Scrap is the view-model of a scrap order (stock.scrap).
type Scrap struct {
	ID             string  `json:"id"`
	Reference      string  `json:"reference"`
	Product        string  `json:"product"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Location       string  `json:"location"`
	ScrapLocation  string  `json:"scrapLocation"`
	Owner          string  `json:"owner"`
	Package        string  `json:"package"`
	Lot            string  `json:"lot"`
	SourceDocument string  `json:"sourceDocument"`
	Origin         string  `json:"origin"`
	Date           string  `json:"date"`
	Status         string  `json:"status"`
}

// NormalizeScrap converts a raw stock.scrap record.
// The state is passed through as is; a record without one is a draft.
func NormalizeScrap(raw any) (Scrap, error) {
	r, err := odoo.AsRecord("scrap", raw)
	if err != nil {
		return Scrap{}, err
	}

	return Scrap{
		ID:             r.Many2OneID("id"),
		Reference:      r.String("name"),
		Product:        r.Many2One("product_id"),
		Quantity:       r.FloatOr("scrap_qty", 0),
		Unit:           r.Many2One("product_uom_id"),
		Location:       r.Many2One("location_id"),
		ScrapLocation:  r.Many2One("scrap_location_id"),
		Owner:          r.Many2One("owner_id"),
		Package:        r.Many2One("package_id"),
		Lot:            r.Many2One("lot_id"),
		SourceDocument: r.Many2One("picking_id"),
		Origin:         r.String("origin"),
		Date:           r.Date("date_done"),
		Status:         r.StringOr("state", StatusDraft),
	}, nil
}

func (s Scrap) SearchFields() []string {
	return []string{s.Reference, s.Product, s.Location, s.SourceDocument, s.Origin, s.Lot}
}

func (s Scrap) FilterFields() map[string]any {
	return map[string]any{
		"id":             s.ID,
		"reference":      s.Reference,
		"product":        s.Product,
		"quantity":       s.Quantity,
		"unit":           s.Unit,
		"location":       s.Location,
		"scrapLocation":  s.ScrapLocation,
		"owner":          s.Owner,
		"package":        s.Package,
		"lot":            s.Lot,
		"sourceDocument": s.SourceDocument,
		"date":           s.Date,
		"status":         s.Status,
	}
}
