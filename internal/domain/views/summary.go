package views

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stockview/internal/core/types"
	"stockview/internal/domain/normalizer"
)

// Summary aggregates a filtered list. Only the fields relevant to the
// entity are set.
type Summary struct {
	Entity           normalizer.Entity      `json:"entity"`
	Count            int                    `json:"count"`
	Rejected         int                    `json:"rejected"`
	ByStatus         map[string]int         `json:"byStatus,omitempty"`
	QuantityByStatus map[string]float64     `json:"quantityByStatus,omitempty"`
	TotalQuantity    *float64               `json:"totalQuantity,omitempty"`
	TotalValue       *types.Money           `json:"totalValue,omitempty"`
	ValueByCategory  map[string]types.Money `json:"valueByCategory,omitempty"`
	Categories       []string               `json:"categories,omitempty"`
}

// Summarize lists entity with q and aggregates the matching items.
func (s *Service) Summarize(ctx context.Context, entity normalizer.Entity, q Query) (Summary, error) {
	ctx, span := tracer.Start(ctx, "views.summarize",
		trace.WithAttributes(attribute.String("view.entity", string(entity))))
	defer span.End()

	res, err := s.list(ctx, entity, q)
	endSpan(span, res, err)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(res), nil
}

// Summarize aggregates an already filtered result.
func Summarize(res ListResult) Summary {
	sum := Summary{Entity: res.Entity, Count: len(res.Items), Rejected: len(res.Errors)}

	switch res.Entity {
	case normalizer.EntityTransfers:
		sum.ByStatus = map[string]int{}
		for _, it := range res.Items {
			if t, ok := it.(normalizer.Transfer); ok {
				sum.ByStatus[t.Status]++
			}
		}

	case normalizer.EntityScraps:
		sum.ByStatus = map[string]int{}
		sum.QuantityByStatus = map[string]float64{}
		total := 0.0
		for _, it := range res.Items {
			if sc, ok := it.(normalizer.Scrap); ok {
				sum.ByStatus[sc.Status]++
				sum.QuantityByStatus[sc.Status] += sc.Quantity
				total += sc.Quantity
			}
		}
		sum.TotalQuantity = &total

	case normalizer.EntityValuation:
		total := types.Zero()
		sum.ValueByCategory = map[string]types.Money{}
		for _, it := range res.Items {
			line, ok := it.(normalizer.ValuationLine)
			if !ok {
				continue
			}
			total = total.Add(line.TotalValue)
			prev, seen := sum.ValueByCategory[line.Category]
			if !seen {
				prev = types.Zero()
				sum.Categories = append(sum.Categories, line.Category)
			}
			sum.ValueByCategory[line.Category] = prev.Add(line.TotalValue)
		}
		sort.Strings(sum.Categories)
		sum.TotalValue = &total
	}
	return sum
}
