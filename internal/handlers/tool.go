package handlers

import (
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/gin-gonic/gin"
)

type ToolHandler struct {
	toolService *services.ToolService
}

func NewToolHandler(toolService *services.ToolService) *ToolHandler {
	return &ToolHandler{toolService: toolService}
}

// GET /tools
func (h *ToolHandler) List(c *gin.Context) {
	var req services.ToolListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tools, err := h.toolService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tools)
}

// GET /tools/:id
func (h *ToolHandler) GetByID(c *gin.Context) {
	id, ok := uintParam(c, "id", "tool id")
	if !ok {
		return
	}

	tool, err := h.toolService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tool)
}

// POST /tools
func (h *ToolHandler) Create(c *gin.Context) {
	var req services.CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tool, err := h.toolService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, tool)
}

// PUT /tools/:id
func (h *ToolHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id", "tool id")
	if !ok {
		return
	}

	var req services.UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tool, err := h.toolService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tool)
}

// DELETE /tools/:id
func (h *ToolHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id", "tool id")
	if !ok {
		return
	}

	if err := h.toolService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "tool deleted successfully"})
}

// Launch starts the tool's executable and records when it was last used
// POST /tools/:id/launch
func (h *ToolHandler) Launch(c *gin.Context) {
	id, ok := uintParam(c, "id", "tool id")
	if !ok {
		return
	}

	result, err := h.toolService.Launch(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
