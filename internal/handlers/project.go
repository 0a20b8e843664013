package handlers

import (
	"time"

	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService  *services.ProjectService
	metadataService *services.ProjectMetadataService
}

func NewProjectHandler(projectService *services.ProjectService, metadataService *services.ProjectMetadataService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		metadataService: metadataService,
	}
}

// List returns paginated projects
// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// GetByID returns a project by ID
// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := uintParam(c, "id", "project id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Create materializes a flat template and registers the project
// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// CreateWithShots materializes the shot template under <root_path>/Projects
// POST /projects/create
func (h *ProjectHandler) CreateWithShots(c *gin.Context) {
	var req services.CreateShotProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.CreateWithShots(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// Update patches a project record
// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id", "project id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project record, leaving its folder on disk
// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id", "project id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted successfully"})
}

// ApplyTemplate re-creates a flat template's folders inside the project
// POST /projects/:id/folders
func (h *ProjectHandler) ApplyTemplate(c *gin.Context) {
	id, ok := uintParam(c, "id", "project id")
	if !ok {
		return
	}

	var req services.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	manifest, err := h.projectService.ApplyTemplate(id, req.TemplateType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"message":  "folder structure created successfully",
		"manifest": manifest,
	})
}

// NextNumber returns the next free YYNNNN project number
// GET /projects/next-number
func (h *ProjectHandler) NextNumber(c *gin.Context) {
	next, err := h.projectService.NextNumber(time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"next_number": next})
}

// Scan registers project folders found under <root>/Projects
// GET /projects/scan?root=
func (h *ProjectHandler) Scan(c *gin.Context) {
	result, err := h.projectService.Scan(c.Query("root"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetMetadata returns the project's metadata or its unsaved default
// GET /projects/:id/metadata
func (h *ProjectHandler) GetMetadata(c *gin.Context) {
	id, ok := uintParam(c, "id", "project id")
	if !ok {
		return
	}

	meta, err := h.metadataService.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, meta)
}

// UpdateMetadata creates or patches the project's metadata
// PUT /projects/:id/metadata
func (h *ProjectHandler) UpdateMetadata(c *gin.Context) {
	id, ok := uintParam(c, "id", "project id")
	if !ok {
		return
	}

	var req services.UpdateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	meta, err := h.metadataService.Upsert(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, meta)
}
