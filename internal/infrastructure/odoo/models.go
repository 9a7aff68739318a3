package odoo

import "sort"

// Collection describes how one snapshot collection is read from the backend.
type Collection struct {
	Model  string
	Fields []string
	Domain []any
	Order  string
}

// Collection names mirror the normalizer entities plus the two valuation inputs.
const (
	CollectionAttributes   = "attributes"
	CollectionOperations   = "operations"
	CollectionTransfers    = "transfers"
	CollectionRules        = "rules"
	CollectionScraps       = "scraps"
	CollectionPackageTypes = "package-types"
	CollectionQuants       = "quants"
	CollectionProducts     = "products"
)

const attributeValueModel = "product.attribute.value"

var attributeValueFields = []string{"id", "name", "html_color", "default_extra_price", "is_custom"}

// internalLocations restricts quants to stock the company actually holds.
var internalLocations = []any{[]any{"location_id.usage", "=", "internal"}}

var collections = map[string]Collection{
	CollectionAttributes: {
		Model:  "product.attribute",
		Fields: []string{"id", "name", "display_type", "create_variant", "visibility", "value_ids"},
		Order:  "sequence, id",
	},
	CollectionOperations: {
		Model: "stock.picking.type",
		Fields: []string{"id", "name", "code", "sequence_code", "warehouse_id",
			"default_location_src_id", "default_location_dest_id", "return_picking_type_id", "active"},
		Order: "sequence, id",
	},
	CollectionTransfers: {
		Model: "stock.picking",
		Fields: []string{"id", "name", "state", "partner_id", "location_id", "location_dest_id",
			"picking_type_id", "batch_id", "scheduled_date", "origin", "move_line_ids"},
		Order: "scheduled_date desc, id desc",
	},
	CollectionRules: {
		Model: "stock.rule",
		Fields: []string{"id", "name", "action", "procure_method", "picking_type_id", "location_src_id",
			"location_dest_id", "route_id", "partner_address_id", "warehouse_id", "delay", "active"},
		Order: "sequence, id",
	},
	CollectionScraps: {
		Model: "stock.scrap",
		Fields: []string{"id", "name", "product_id", "scrap_qty", "product_uom_id", "location_id",
			"scrap_location_id", "owner_id", "package_id", "lot_id", "picking_id", "origin", "date_done", "state"},
		Order: "id desc",
	},
	CollectionPackageTypes: {
		Model: "stock.package.type",
		Fields: []string{"id", "name", "height", "width", "packaging_length", "base_weight", "max_weight",
			"barcode", "package_carrier_type", "shipper_package_code"},
		Order: "sequence, id",
	},
	CollectionQuants: {
		Model:  "stock.quant",
		Fields: []string{"id", "product_id", "available_quantity", "quantity"},
		Domain: internalLocations,
	},
	CollectionProducts: {
		Model:  "product.product",
		Fields: []string{"id", "display_name", "name", "default_code", "standard_price", "categ_id", "uom_id"},
	},
}

// LookupCollection returns the read settings for a collection.
func LookupCollection(name string) (Collection, bool) {
	c, ok := collections[name]
	return c, ok
}

// Collections lists every known collection name, sorted.
func Collections() []string {
	out := make([]string, 0, len(collections))
	for name := range collections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
