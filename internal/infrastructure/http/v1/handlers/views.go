package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockview/internal/domain/normalizer"
	"stockview/internal/domain/views"
	"stockview/internal/infrastructure/http/v1/dto"
)

// ViewsService is the part of views.Service the handlers use.
type ViewsService interface {
	List(ctx context.Context, entity normalizer.Entity, q views.Query) (views.ListResult, error)
	Summarize(ctx context.Context, entity normalizer.Entity, q views.Query) (views.Summary, error)
}

// ViewsHandler serves normalized, filtered view-models.
type ViewsHandler struct {
	*BaseHandler
	service ViewsService
}

func NewViewsHandler(base *BaseHandler, service ViewsService) *ViewsHandler {
	return &ViewsHandler{BaseHandler: base, service: service}
}

// List handles GET /api/v1/views/:entity, valuation included.
func (h *ViewsHandler) List(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	res, err := h.service.List(c.Request.Context(), normalizer.Entity(c.Param("entity")), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(res))
}

// Summary handles GET /api/v1/views/:entity/summary.
func (h *ViewsHandler) Summary(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	sum, err := h.service.Summarize(c.Request.Context(), normalizer.Entity(c.Param("entity")), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sum)
}

func (h *ViewsHandler) query(c *gin.Context) (views.Query, bool) {
	var raw dto.ViewQuery
	if !h.BindQuery(c, &raw) {
		return views.Query{}, false
	}
	q, err := raw.ToQuery()
	if err != nil {
		h.Error(c, err)
		return views.Query{}, false
	}
	return q, true
}
