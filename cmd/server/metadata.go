package main

import (
	"stockview/internal/domain/normalizer"
	"stockview/internal/infrastructure/odoo"
	"stockview/internal/metadata"
)

// setupMetadataRegistry describes every view-model served by the API.
func setupMetadataRegistry() *metadata.Registry {
	reg := metadata.NewRegistry()
	dicts := normalizer.Dictionaries()

	register := func(entity any, name normalizer.Entity, typ metadata.EntityType, label string, sources ...string) *metadata.EntityDef {
		def := metadata.Inspect(entity, string(name), typ)
		def.Label = label
		for _, src := range sources {
			if coll, ok := odoo.LookupCollection(src); ok {
				def.Sources = append(def.Sources, coll.Model)
			}
		}
		return &def
	}

	attributes := register(normalizer.Attribute{}, normalizer.EntityAttributes, metadata.TypeView, "Attributes", odoo.CollectionAttributes)
	attributes.SetOptions("displayType", dicts[normalizer.DictAttributeDisplayType].Labels())
	attributes.SetOptions("variantCreation", dicts[normalizer.DictAttributeVariant].Labels())
	attributes.SetOptions("filterVisibility", dicts[normalizer.DictAttributeVisibility].Labels())

	operations := register(normalizer.Operation{}, normalizer.EntityOperations, metadata.TypeView, "Operation Types", odoo.CollectionOperations)
	operations.SetOptions("displayCode", dicts[normalizer.DictPickingTypeCode].Labels())

	transfers := register(normalizer.Transfer{}, normalizer.EntityTransfers, metadata.TypeView, "Transfers", odoo.CollectionTransfers)
	transfers.SetOptions("status", dicts[normalizer.DictPickingState].Labels())

	rules := register(normalizer.Rule{}, normalizer.EntityRules, metadata.TypeView, "Rules", odoo.CollectionRules)
	rules.SetOptions("action", dicts[normalizer.DictRuleAction].Labels())
	rules.SetOptions("supplyMethod", dicts[normalizer.DictProcureMethod].Labels())

	scraps := register(normalizer.Scrap{}, normalizer.EntityScraps, metadata.TypeView, "Scrap Orders", odoo.CollectionScraps)

	packageTypes := register(normalizer.PackageType{}, normalizer.EntityPackageTypes, metadata.TypeView, "Package Types", odoo.CollectionPackageTypes)
	for _, f := range []string{"height", "width", "length", "weight", "maxWeight", "barcode"} {
		if field := packageTypes.Field(f); field != nil {
			field.Placeholder = normalizer.Unknown
		}
	}
	if field := packageTypes.Field("carrier"); field != nil {
		field.Placeholder = normalizer.NoCarrier
	}

	valuation := register(normalizer.ValuationLine{}, normalizer.EntityValuation, metadata.TypeDerived, "Stock Valuation",
		odoo.CollectionQuants, odoo.CollectionProducts)
	if field := valuation.Field("category"); field != nil {
		field.Placeholder = normalizer.Uncategorized
	}

	for _, def := range []*metadata.EntityDef{attributes, operations, transfers, rules, scraps, packageTypes, valuation} {
		reg.Register(*def)
	}
	return reg
}
