package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockview/internal/core/apperror"
	"stockview/internal/metadata"
)

type MetadataHandler struct {
	*BaseHandler
	registry *metadata.Registry
}

func NewMetadataHandler(base *BaseHandler, registry *metadata.Registry) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		registry:    registry,
	}
}

// ListEntities returns every view-model definition.
// GET /api/v1/meta/entities
func (h *MetadataHandler) ListEntities(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

// GetEntity returns the definition of one view-model.
// GET /api/v1/meta/entities/:name
func (h *MetadataHandler) GetEntity(c *gin.Context) {
	name := c.Param("name")
	def, ok := h.registry.Get(name)
	if !ok {
		h.Error(c, apperror.NewUnknownEntity(name))
		return
	}
	h.OK(c, def)
}
