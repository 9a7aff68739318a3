package normalizer

import (
	"maps"
	"sort"
)

// Dictionary maps a backend code to a display label.
// Lookup of an unmapped code returns the code itself so values the backend
// adds later stay visible instead of rendering blank.
type Dictionary map[string]string

// Resolve returns the label for code, or code when unmapped.
func (d Dictionary) Resolve(code string) string {
	if label, ok := d[code]; ok {
		return label
	}
	return code
}

// Attribute display types.
const (
	DisplayRadio         = "Radio"
	DisplayPills         = "Pills"
	DisplaySelect        = "Select"
	DisplayColor         = "Color"
	DisplayMultiCheckbox = "Multi-checkbox"
)

// Attribute variant creation modes.
const (
	VariantInstantly   = "Instantly"
	VariantDynamically = "Dynamically"
	VariantNever       = "Never"
)

// Attribute filter visibility.
const (
	VisibilityVisible = "Visible"
	VisibilityHidden  = "Hidden"
)

// Transfer statuses.
const (
	StatusDraft     = "draft"
	StatusWaiting   = "waiting"
	StatusReady     = "ready"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

const (
	// NoCarrier is shown for package types without a shipping connector.
	NoCarrier = "No carrier integration"
	// Unknown is shown for absent package dimensions, as opposed to a real zero.
	Unknown = "-"
	// Uncategorized is the valuation category of products without one.
	Uncategorized = "Uncategorized"
)

var (
	attributeDisplayTypes = Dictionary{
		"radio":  DisplayRadio,
		"pills":  DisplayPills,
		"select": DisplaySelect,
		"color":  DisplayColor,
		"multi":  DisplayMultiCheckbox,
	}

	attributeVariantModes = Dictionary{
		"always":     VariantInstantly,
		"dynamic":    VariantDynamically,
		"no_variant": VariantNever,
	}

	attributeVisibility = Dictionary{
		"visible": VisibilityVisible,
		"hidden":  VisibilityHidden,
	}

	// Odoo stock.picking state -> transfer status.
	pickingStates = Dictionary{
		"draft":     StatusDraft,
		"waiting":   StatusWaiting,
		"confirmed": StatusWaiting,
		"assigned":  StatusReady,
		"done":      StatusDone,
		"cancel":    StatusCancelled,
	}

	pickingTypeCodes = Dictionary{
		"incoming":         "Receipt",
		"outgoing":         "Delivery",
		"internal":         "Internal Transfer",
		"mrp_operation":    "Manufacturing",
		"repair_operation": "Repair",
		"dropship":         "Dropship",
	}

	ruleActions = Dictionary{
		"pull":        "Pull From",
		"push":        "Push To",
		"pull_push":   "Pull & Push",
		"buy":         "Buy",
		"manufacture": "Manufacture",
	}

	procureMethods = Dictionary{
		"make_to_stock": "Take From Stock",
		"make_to_order": "Trigger Another Rule",
		"mts_else_mto":  "Take From Stock, if Unavailable, Trigger Another Rule",
	}
)

// Named dictionaries, as exposed through entity metadata.
const (
	DictAttributeDisplayType = "attribute.display_type"
	DictAttributeVariant     = "attribute.create_variant"
	DictAttributeVisibility  = "attribute.visibility"
	DictPickingState         = "picking.state"
	DictPickingTypeCode      = "picking_type.code"
	DictRuleAction           = "rule.action"
	DictProcureMethod        = "rule.procure_method"
)

var dictionaries = map[string]Dictionary{
	DictAttributeDisplayType: attributeDisplayTypes,
	DictAttributeVariant:     attributeVariantModes,
	DictAttributeVisibility:  attributeVisibility,
	DictPickingState:         pickingStates,
	DictPickingTypeCode:      pickingTypeCodes,
	DictRuleAction:           ruleActions,
	DictProcureMethod:        procureMethods,
}

// Labels returns the distinct display labels, sorted.
func (d Dictionary) Labels() []string {
	seen := make(map[string]struct{}, len(d))
	out := make([]string, 0, len(d))
	for _, label := range d {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Dictionaries returns copies of every code dictionary keyed by name.
func Dictionaries() map[string]Dictionary {
	out := make(map[string]Dictionary, len(dictionaries))
	for name, d := range dictionaries {
		out[name] = maps.Clone(d)
	}
	return out
}

// PickingStatus maps an Odoo picking state to a transfer status.
func PickingStatus(state string) string { return pickingStates.Resolve(state) }

// PickingTypeLabel maps a picking-type code to its display label.
func PickingTypeLabel(code string) string { return pickingTypeCodes.Resolve(code) }

// RuleActionLabel maps a stock rule action code to its display label.
func RuleActionLabel(code string) string { return ruleActions.Resolve(code) }

// ProcureMethodLabel maps a procure method code to its display label.
func ProcureMethodLabel(code string) string { return procureMethods.Resolve(code) }

// resolveOr resolves code through d, or returns def when code is empty.
func resolveOr(d Dictionary, code, def string) string {
	if code == "" {
		return def
	}
	return d.Resolve(code)
}
