package handlers

import (
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	catalog *scaffold.Catalog
}

func NewTemplateHandler(catalog *scaffold.Catalog) *TemplateHandler {
	return &TemplateHandler{catalog: catalog}
}

// List returns every folder template, flat ones first
// GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	response.Success(c, h.catalog.List())
}
