package handlers

import (
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the settings, creating them with defaults on first access
// GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

// Update patches the settings. The desktop shell sends POST, other clients PUT.
// POST /settings, PUT /settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.Update(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

// ValidatePath checks a candidate studio root for Projects and Tools folders
// POST /settings/validate-path
func (h *SettingsHandler) ValidatePath(c *gin.Context) {
	var req services.ValidatePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.settingsService.ValidatePath(req.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
