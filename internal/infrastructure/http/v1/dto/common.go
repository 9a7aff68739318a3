// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"stockview/internal/core/odoo"
	"stockview/internal/domain/filter"
	"stockview/internal/domain/views"
)

// --- View queries ---

// ViewQuery is the query string of the view endpoints:
//
//	?search=box&filter=status:eq:ready&filter=operations:gt:2&where=item.batch != ""&refresh=true
type ViewQuery struct {
	Search  string   `form:"search"`
	Where   string   `form:"where"`
	Filter  []string `form:"filter"`
	Refresh bool     `form:"refresh"`
}

// ToQuery parses the raw filters into a views.Query.
func (q ViewQuery) ToQuery() (views.Query, error) {
	items, err := filter.ParseItems(q.Filter)
	if err != nil {
		return views.Query{}, err
	}
	return views.Query{
		Search:  q.Search,
		Filters: items,
		Where:   q.Where,
		Refresh: q.Refresh,
	}, nil
}

// ListResponse wraps a view list.
type ListResponse struct {
	Entity string `json:"entity"`
	Items  any    `json:"items"`
	Errors any    `json:"errors"`
	Total  int    `json:"total"`
	Count  int    `json:"count"`
}

// FromListResult creates ListResponse from views.ListResult.
func FromListResult(res views.ListResult) ListResponse {
	return ListResponse{
		Entity: string(res.Entity),
		Items:  res.Items,
		Errors: res.Errors,
		Total:  res.Total,
		Count:  len(res.Items),
	}
}

// --- Normalize requests ---

// ValuationRequest is the body of POST /normalize/valuation.
type ValuationRequest struct {
	Quants   []any `json:"quants"`
	Products []any `json:"products"`
}

// DecodeRecords decodes a JSON array of raw records keeping numbers exact.
func DecodeRecords(data []byte) ([]any, error) {
	out, err := odoo.DecodeList(data)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("expected a JSON array of records")
	}
	return out, nil
}

// DecodeValuationRequest decodes a ValuationRequest keeping numbers exact.
func DecodeValuationRequest(data []byte) (ValuationRequest, error) {
	var req ValuationRequest
	if err := decodeExact(data, &req); err != nil {
		return ValuationRequest{}, err
	}
	if req.Quants == nil {
		req.Quants = []any{}
	}
	if req.Products == nil {
		req.Products = []any{}
	}
	return req, nil
}

func decodeExact(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
