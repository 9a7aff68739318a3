package handlers

import (
	"github.com/gin-gonic/gin"

	"stockview/internal/core/apperror"
	"stockview/internal/domain/normalizer"
	"stockview/internal/domain/views"
	"stockview/internal/infrastructure/http/v1/dto"
	"stockview/pkg/logger"
)

// NormalizeHandler converts raw records posted by the client.
// It never talks to the backend.
type NormalizeHandler struct {
	*BaseHandler
	recorder views.Recorder
}

// NewNormalizeHandler creates the handler; recorder may be nil.
func NewNormalizeHandler(base *BaseHandler, recorder views.Recorder) *NormalizeHandler {
	return &NormalizeHandler{BaseHandler: base, recorder: recorder}
}

// Normalize handles POST /api/v1/normalize/:entity.
// The body is a JSON array of raw records, or {quants, products} for valuation.
// Records that are not objects are reported in errors; the rest still normalize.
func (h *NormalizeHandler) Normalize(c *gin.Context) {
	entity := normalizer.Entity(c.Param("entity"))
	if entity == normalizer.EntityValuation {
		h.valuation(c)
		return
	}

	fn, ok := normalizer.Lookup(entity)
	if !ok {
		h.Error(c, apperror.NewUnknownEntity(string(entity)))
		return
	}
	body, ok := h.ReadBody(c)
	if !ok {
		return
	}
	raws, err := dto.DecodeRecords(body)
	if err != nil {
		h.Error(c, apperror.NewValidation("body must be a JSON array of records").WithDetail("error", err.Error()))
		return
	}

	res := normalizer.Batch(raws, fn)
	h.record(c, entity, len(res.Items), len(res.Errors))
	h.OK(c, res)
}

func (h *NormalizeHandler) valuation(c *gin.Context) {
	body, ok := h.ReadBody(c)
	if !ok {
		return
	}
	req, err := dto.DecodeValuationRequest(body)
	if err != nil {
		h.Error(c, apperror.NewValidation("body must be {\"quants\": [...], \"products\": [...]}").
			WithDetail("error", err.Error()))
		return
	}

	res := normalizer.NormalizeValuation(req.Quants, req.Products)
	h.record(c, normalizer.EntityValuation, len(res.Items), len(res.Errors))
	h.OK(c, res)
}

func (h *NormalizeHandler) record(c *gin.Context, entity normalizer.Entity, normalized, rejected int) {
	if h.recorder != nil {
		h.recorder.RecordBatch(string(entity), normalized, rejected)
	}
	if rejected > 0 {
		logger.Warn(c.Request.Context(), "normalize request had rejected records",
			"entity", entity, "rejected", rejected, "normalized", normalized)
	}
}
