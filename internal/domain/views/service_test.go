package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/core/apperror"
	"stockview/internal/core/types"
	"stockview/internal/domain/filter"
	"stockview/internal/domain/normalizer"
)

type fakeSource struct {
	data      map[string][]any
	err       error
	refreshed []string
}

func (f *fakeSource) Records(_ context.Context, collection string, refresh bool) ([]any, error) {
	if refresh {
		f.refreshed = append(f.refreshed, collection)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data[collection], nil
}

type countingRecorder struct {
	normalized map[string]int
	rejected   map[string]int
}

func newRecorder() *countingRecorder {
	return &countingRecorder{normalized: map[string]int{}, rejected: map[string]int{}}
}

func (r *countingRecorder) RecordBatch(entity string, normalized, rejected int) {
	r.normalized[entity] += normalized
	r.rejected[entity] += rejected
}

func picking(id int, state, name string) map[string]any {
	return map[string]any{"id": id, "name": name, "state": state, "move_line_ids": []any{1, 2}}
}

func fixtures() *fakeSource {
	return &fakeSource{data: map[string][]any{
		"transfers": {
			picking(1, "assigned", "WH/INT/001"),
			"garbage",
			picking(2, "done", "WH/OUT/002"),
			picking(3, "confirmed", "WH/INT/003"),
			picking(4, "assigned", "WH/IN/004"),
		},
		"scraps": {
			map[string]any{"id": 1, "name": "SP/1", "scrap_qty": 2.5, "state": "done"},
			map[string]any{"id": 2, "name": "SP/2", "scrap_qty": 1, "state": "draft"},
			map[string]any{"id": 3, "name": "SP/3", "scrap_qty": 4, "state": "done"},
		},
		"quants": {
			map[string]any{"product_id": []any{1, "Desk"}, "quantity": 2},
			map[string]any{"product_id": []any{1, "Desk"}, "quantity": 3},
			map[string]any{"product_id": []any{2, "Chair"}, "quantity": 4},
			map[string]any{"product_id": []any{3, "Lamp"}, "quantity": 0},
		},
		"products": {
			map[string]any{"id": 1, "display_name": "Desk", "standard_price": "100.50", "categ_id": []any{1, "Furniture"}},
			map[string]any{"id": 2, "display_name": "Chair", "standard_price": 20, "categ_id": []any{1, "Furniture"}},
			map[string]any{"id": 3, "display_name": "Lamp", "standard_price": 15},
		},
	}}
}

func TestList_NormalizesAndFilters(t *testing.T) {
	rec := newRecorder()
	svc := NewService(fixtures(), rec)

	res, err := svc.List(context.Background(), normalizer.EntityTransfers, Query{Search: "int"})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "WH/INT/001", res.Items[0].(normalizer.Transfer).Reference)
	assert.Equal(t, "waiting", res.Items[1].(normalizer.Transfer).Status)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, apperror.CodeMalformedRecord, res.Errors[0].Code)

	assert.Equal(t, 4, rec.normalized["transfers"])
	assert.Equal(t, 1, rec.rejected["transfers"])
}

func TestList_FilterItemsAndExpression(t *testing.T) {
	svc := NewService(fixtures(), nil)

	res, err := svc.List(context.Background(), normalizer.EntityTransfers, Query{
		Filters: []filter.Item{{Field: "status", Operator: filter.Equal, Value: "ready"}},
		Where:   `item.reference.startsWith("WH/IN/")`,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "4", res.Items[0].(normalizer.Transfer).ID)
}

func TestList_InvalidExpression(t *testing.T) {
	svc := NewService(fixtures(), nil)
	_, err := svc.List(context.Background(), normalizer.EntityTransfers, Query{Where: "item.status =="})
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestList_UnknownEntity(t *testing.T) {
	svc := NewService(fixtures(), nil)
	_, err := svc.List(context.Background(), normalizer.Entity("invoices"), Query{})
	assert.Equal(t, apperror.CodeUnknownEntity, apperror.CodeOf(err))
}

func TestList_BackendUnavailable(t *testing.T) {
	src := fixtures()
	src.err = errors.New("connection refused")
	svc := NewService(src, nil)

	_, err := svc.List(context.Background(), normalizer.EntityRules, Query{})
	assert.Equal(t, apperror.CodeBackendUnavailable, apperror.CodeOf(err))

	src.err = context.Canceled
	_, err = svc.List(context.Background(), normalizer.EntityRules, Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestList_RefreshPassesThrough(t *testing.T) {
	src := fixtures()
	svc := NewService(src, nil)
	_, err := svc.Valuation(context.Background(), Query{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"quants", "products"}, src.refreshed)
}

func TestValuation(t *testing.T) {
	svc := NewService(fixtures(), nil)

	res, err := svc.Valuation(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	desk := res.Items[0].(normalizer.ValuationLine)
	assert.Equal(t, "Desk", desk.Product)
	assert.True(t, desk.TotalValue.Equal(types.NewMoney(502.5)), "got %s", desk.TotalValue)

	viaList, err := svc.List(context.Background(), normalizer.EntityValuation, Query{Search: "chair"})
	require.NoError(t, err)
	require.Len(t, viaList.Items, 1)
}

func TestSummarize(t *testing.T) {
	svc := NewService(fixtures(), nil)
	ctx := context.Background()

	transfers, err := svc.Summarize(ctx, normalizer.EntityTransfers, Query{})
	require.NoError(t, err)
	assert.Equal(t, 4, transfers.Count)
	assert.Equal(t, 1, transfers.Rejected)
	assert.Equal(t, map[string]int{"ready": 2, "done": 1, "waiting": 1}, transfers.ByStatus)

	scraps, err := svc.Summarize(ctx, normalizer.EntityScraps, Query{})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"done": 6.5, "draft": 1}, scraps.QuantityByStatus)
	require.NotNil(t, scraps.TotalQuantity)
	assert.Equal(t, 7.5, *scraps.TotalQuantity)

	valuation, err := svc.Summarize(ctx, normalizer.EntityValuation, Query{})
	require.NoError(t, err)
	require.NotNil(t, valuation.TotalValue)
	assert.True(t, valuation.TotalValue.Equal(types.NewMoney(582.5)), "got %s", valuation.TotalValue)
	assert.Equal(t, []string{"Furniture"}, valuation.Categories)
	assert.True(t, valuation.ValueByCategory["Furniture"].Equal(types.NewMoney(582.5)))
}

func TestSummarize_FilteredSubset(t *testing.T) {
	svc := NewService(fixtures(), nil)
	sum, err := svc.Summarize(context.Background(), normalizer.EntityTransfers, Query{
		Filters: []filter.Item{{Field: "status", Operator: filter.Equal, Value: "ready"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ready": 2}, sum.ByStatus)
}
