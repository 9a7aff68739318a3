// Package views serves filtered view-models built from backend snapshots.
package views

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stockview/internal/core/apperror"
	"stockview/internal/domain/filter"
	"stockview/internal/domain/normalizer"
	"stockview/pkg/logger"
)

var tracer = otel.Tracer("stockview/views")

// Collections read for valuation.
const (
	CollectionQuants   = "quants"
	CollectionProducts = "products"
)

// Source yields the raw records of a backend collection.
type Source interface {
	Records(ctx context.Context, collection string, refresh bool) ([]any, error)
}

// Recorder counts normalization outcomes.
type Recorder interface {
	RecordBatch(entity string, normalized, rejected int)
}

type nopRecorder struct{}

func (nopRecorder) RecordBatch(string, int, int) {}

// Query narrows a list.
type Query struct {
	Search  string
	Filters []filter.Item
	// Where is a CEL expression over the variable "item".
	Where   string
	Refresh bool
}

func (q Query) compile() (filter.Query, error) {
	expr, err := filter.Compile(q.Where)
	if err != nil {
		return filter.Query{}, err
	}
	return filter.Query{Search: q.Search, Items: q.Filters, Expression: expr}, nil
}

// ListResult is one page of view-models.
// Total counts normalized records before filtering.
type ListResult struct {
	Entity normalizer.Entity        `json:"entity"`
	Items  []normalizer.View        `json:"items"`
	Errors []normalizer.RecordError `json:"errors"`
	Total  int                      `json:"total"`
}

type Service struct {
	source   Source
	recorder Recorder
}

// NewService creates the views service. recorder may be nil.
func NewService(source Source, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{source: source, recorder: recorder}
}

// List normalizes and filters one single-record entity.
func (s *Service) List(ctx context.Context, entity normalizer.Entity, q Query) (ListResult, error) {
	ctx, span := tracer.Start(ctx, "views.list",
		trace.WithAttributes(attribute.String("view.entity", string(entity))))
	defer span.End()

	res, err := s.list(ctx, entity, q)
	endSpan(span, res, err)
	return res, err
}

func (s *Service) list(ctx context.Context, entity normalizer.Entity, q Query) (ListResult, error) {
	if entity == normalizer.EntityValuation {
		return s.valuation(ctx, q)
	}
	fn, ok := normalizer.Lookup(entity)
	if !ok {
		return ListResult{}, apperror.NewUnknownEntity(string(entity))
	}
	fq, err := q.compile()
	if err != nil {
		return ListResult{}, err
	}

	raws, err := s.records(ctx, string(entity), q.Refresh)
	if err != nil {
		return ListResult{}, err
	}
	batch := normalizer.Batch(raws, fn)
	s.record(ctx, entity, batch.Errors, len(batch.Items))

	return s.finish(entity, batch, fq)
}

// Valuation derives valuation lines from the quant and product snapshots.
func (s *Service) Valuation(ctx context.Context, q Query) (ListResult, error) {
	ctx, span := tracer.Start(ctx, "views.valuation")
	defer span.End()

	res, err := s.valuation(ctx, q)
	endSpan(span, res, err)
	return res, err
}

func (s *Service) valuation(ctx context.Context, q Query) (ListResult, error) {
	fq, err := q.compile()
	if err != nil {
		return ListResult{}, err
	}
	quants, err := s.records(ctx, CollectionQuants, q.Refresh)
	if err != nil {
		return ListResult{}, err
	}
	products, err := s.records(ctx, CollectionProducts, q.Refresh)
	if err != nil {
		return ListResult{}, err
	}

	lines := normalizer.NormalizeValuation(quants, products)
	s.record(ctx, normalizer.EntityValuation, lines.Errors, len(lines.Items))

	batch := normalizer.BatchResult[normalizer.View]{
		Items:  make([]normalizer.View, len(lines.Items)),
		Errors: lines.Errors,
	}
	for i, l := range lines.Items {
		batch.Items[i] = l
	}
	return s.finish(normalizer.EntityValuation, batch, fq)
}

func (s *Service) finish(entity normalizer.Entity, batch normalizer.BatchResult[normalizer.View], fq filter.Query) (ListResult, error) {
	items, err := filter.Apply(batch.Items, fq)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Entity: entity,
		Items:  items,
		Errors: batch.Errors,
		Total:  len(batch.Items),
	}, nil
}

func (s *Service) records(ctx context.Context, collection string, refresh bool) ([]any, error) {
	raws, err := s.source.Records(ctx, collection, refresh)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		logger.Error(ctx, "backend fetch failed", "collection", collection, "error", err)
		return nil, apperror.NewBackendUnavailable(err).WithDetail("collection", collection)
	}
	return raws, nil
}

// record counts the batch and logs every rejected record.
func (s *Service) record(ctx context.Context, entity normalizer.Entity, rejected []normalizer.RecordError, normalized int) {
	s.recorder.RecordBatch(string(entity), normalized, len(rejected))
	for _, re := range rejected {
		logger.Warn(ctx, "record rejected",
			"entity", entity,
			"index", re.Index,
			"source", re.Source,
			"code", re.Code,
			"message", re.Message)
	}
}

func endSpan(span trace.Span, res ListResult, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("view.total", res.Total),
		attribute.Int("view.matched", len(res.Items)),
		attribute.Int("view.rejected", len(res.Errors)),
	)
}
