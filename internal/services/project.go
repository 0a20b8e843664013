package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/internal/utils"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultWorkspaceDir is used when neither the request nor the settings name a workspace.
const DefaultWorkspaceDir = "~/VFX_Projects"

type ProjectService struct {
	db       *gorm.DB
	engine   *scaffold.Engine
	catalog  *scaffold.Catalog
	settings *SettingsService
	now      func() time.Time
}

func NewProjectService(db *gorm.DB, engine *scaffold.Engine, catalog *scaffold.Catalog, settings *SettingsService) *ProjectService {
	return &ProjectService{
		db:       db,
		engine:   engine,
		catalog:  catalog,
		settings: settings,
		now:      time.Now,
	}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Name     string `form:"name"`
	Type     string `form:"type"`
	Client   string `form:"client"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type"`
	Client        string `json:"client"`
	WorkspacePath string `json:"workspace_path"`
	FolderName    string `json:"folder_name"`

	// WorkspacePathAlt is the camelCase key the desktop client sends
	WorkspacePathAlt string `json:"workspacePath"`
}

type CreateShotProjectRequest struct {
	Name       string   `json:"name"`
	RootPath   string   `json:"root_path"`
	FolderName string   `json:"folder_name"`
	Client     string   `json:"client"`
	Shots      []string `json:"shots"`
}

type UpdateProjectRequest struct {
	Name       *string   `json:"name"`
	FolderName *string   `json:"folder_name"`
	Type       *string   `json:"type"`
	Client     *string   `json:"client"`
	Shots      *[]string `json:"shots"`
}

type ApplyTemplateRequest struct {
	TemplateType string `json:"template_type" binding:"required"`
}

// CreateProjectResponse carries the stored record plus the manifest written to disk.
type CreateProjectResponse struct {
	models.Project
	Manifest *scaffold.Manifest `json:"manifest"`
}

// List returns paginated projects, newest first
func (s *ProjectService) List(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Client != "" {
		query = query.Where("client = ?", req.Client)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByID returns a project by ID
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// Create materializes a flat template and registers the project
func (s *ProjectService) Create(req *CreateProjectRequest) (*CreateProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidation("name is required")
	}

	workspace := s.workspaceFor(lo.CoalesceOrEmpty(strings.TrimSpace(req.WorkspacePath), strings.TrimSpace(req.WorkspacePathAlt)))

	folder := strings.TrimSpace(req.FolderName)
	if folder == "" {
		next, err := s.NextNumber(s.now())
		if err != nil {
			return nil, err
		}
		sanitized := utils.SanitizeFolderName(name)
		if sanitized == "" {
			return nil, response.NewValidation("name has no characters usable in a folder name")
		}
		folder = next + "_" + sanitized
	}
	if !utils.ValidName(folder) {
		return nil, response.NewValidation(fmt.Sprintf("invalid folder name %q", folder))
	}
	if err := s.ensureFolderFree(folder, 0); err != nil {
		return nil, err
	}

	plan := s.catalog.FlatPlan(req.Type)
	root := filepath.Join(workspace, folder)
	manifest, err := s.engine.Create(root, plan, scaffold.Info{Name: name, Client: req.Client})
	if err != nil {
		return nil, err
	}
	foldersMaterialized.WithLabelValues(scaffold.KindFlat).Add(float64(len(plan.Dirs)))

	project := models.Project{
		Name:          name,
		FolderName:    folder,
		Type:          plan.Type,
		Client:        req.Client,
		WorkspacePath: root,
		Shots:         datatypes.NewJSONType([]string{}),
	}
	if err := s.insert(&project); err != nil {
		return nil, err
	}

	s.afterCreate(&project, "create")
	return &CreateProjectResponse{Project: project, Manifest: manifest}, nil
}

// CreateWithShots materializes the shot template under <root>/Projects/<folder>
func (s *ProjectService) CreateWithShots(req *CreateShotProjectRequest) (*CreateProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	rootPath := strings.TrimSpace(req.RootPath)
	folder := strings.TrimSpace(req.FolderName)
	shots := lo.Compact(lo.Map(req.Shots, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))

	switch {
	case name == "":
		return nil, response.NewValidation("name is required")
	case rootPath == "":
		return nil, response.NewValidation("root_path is required")
	case folder == "":
		return nil, response.NewValidation("folder_name is required")
	case len(shots) == 0:
		return nil, response.NewValidation("at least one shot is required")
	}
	if !utils.ValidName(folder) {
		return nil, response.NewValidation(fmt.Sprintf("invalid folder name %q", folder))
	}

	rootPath = utils.ExpandHome(rootPath)
	if ok, _ := afero.DirExists(s.engine.Fs(), rootPath); !ok {
		return nil, response.NewValidation(fmt.Sprintf("root path does not exist: %s", rootPath))
	}

	plan, err := s.catalog.ShotPlan(shots)
	if err != nil {
		return nil, err
	}
	if err := s.ensureFolderFree(folder, 0); err != nil {
		return nil, err
	}

	target := filepath.Join(rootPath, ProjectsDirName, folder)
	manifest, err := s.engine.Create(target, plan, scaffold.Info{Name: name, Client: req.Client})
	if err != nil {
		return nil, err
	}
	foldersMaterialized.WithLabelValues(scaffold.KindShot).Add(float64(len(plan.Dirs)))

	project := models.Project{
		Name:          name,
		FolderName:    folder,
		Type:          plan.Type,
		Client:        req.Client,
		WorkspacePath: target,
		Shots:         datatypes.NewJSONType(plan.Shots),
	}
	if err := s.insert(&project); err != nil {
		return nil, err
	}

	s.afterCreate(&project, "create_shots")
	return &CreateProjectResponse{Project: project, Manifest: manifest}, nil
}

// Update applies a partial patch to the record. The folder on disk is not renamed.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, response.NewValidation("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.FolderName != nil && *req.FolderName != project.FolderName {
		folder := strings.TrimSpace(*req.FolderName)
		if !utils.ValidName(folder) {
			return nil, response.NewValidation(fmt.Sprintf("invalid folder name %q", folder))
		}
		if err := s.ensureFolderFree(folder, id); err != nil {
			return nil, err
		}
		updates["folder_name"] = folder
	}
	if req.Type != nil {
		projectType := strings.TrimSpace(*req.Type)
		if !s.catalog.Has(projectType) && projectType != s.catalog.Shot().Type {
			return nil, response.NewValidation(fmt.Sprintf("unknown project type %q", projectType))
		}
		updates["type"] = projectType
	}
	if req.Client != nil {
		updates["client"] = *req.Client
	}
	if req.Shots != nil {
		shots := lo.Compact(lo.Map(*req.Shots, func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
		updates["shots"] = datatypes.NewJSONType(lo.Uniq(shots))
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, response.NewConflict("folder_name already registered")
			}
			return nil, err
		}
	}

	updated, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	PublishProjectEvent(ProjectEventUpdated, updated.ID, updated.Name, updated.FolderName)
	return updated, nil
}

// Delete removes the record and its metadata. The project tree on disk is kept.
func (s *ProjectService) Delete(id uint) error {
	var project models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("project not found")
			}
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMetadata{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return err
	}

	s.refreshProjectsGauge()
	PublishProjectEvent(ProjectEventDeleted, project.ID, project.Name, project.FolderName)
	return nil
}

// ApplyTemplate re-materializes a flat template into an existing project folder
func (s *ProjectService) ApplyTemplate(id uint, templateType string) (*scaffold.Manifest, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	plan := s.catalog.FlatPlan(templateType)
	manifest, err := s.engine.Apply(project.WorkspacePath, plan, scaffold.Info{Name: project.Name, Client: project.Client})
	if err != nil {
		return nil, err
	}
	foldersMaterialized.WithLabelValues(scaffold.KindFlat).Add(float64(len(plan.Dirs)))

	logger.Info().
		Uint("project_id", id).
		Str("template", plan.Type).
		Str("path", project.WorkspacePath).
		Msg("[Project] template applied")
	return manifest, nil
}

// workspaceFor picks the parent directory new flat projects are created in
func (s *ProjectService) workspaceFor(requested string) string {
	if ws := strings.TrimSpace(requested); ws != "" {
		return utils.ExpandHome(ws)
	}
	if root := s.settings.RootPath(); root != "" {
		return filepath.Join(root, ProjectsDirName)
	}
	return utils.ExpandHome(DefaultWorkspaceDir)
}

// ensureFolderFree returns Conflict when folder is registered to a project other than exceptID
func (s *ProjectService) ensureFolderFree(folder string, exceptID uint) error {
	var count int64
	query := s.db.Model(&models.Project{}).Where("folder_name = ?", folder)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return response.NewConflict(fmt.Sprintf("folder_name %q already registered", folder))
	}
	return nil
}

func (s *ProjectService) insert(project *models.Project) error {
	if err := s.db.Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.NewConflict(fmt.Sprintf("folder_name %q already registered", project.FolderName))
		}
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *ProjectService) afterCreate(project *models.Project, source string) {
	projectsCreated.WithLabelValues(source).Inc()
	s.refreshProjectsGauge()
	PublishProjectEvent(ProjectEventCreated, project.ID, project.Name, project.FolderName)
	LogInfo("project", source, fmt.Sprintf("Project %s created at %s", project.Name, project.WorkspacePath), "", "", map[string]interface{}{
		"project_id":  project.ID,
		"folder_name": project.FolderName,
		"type":        project.Type,
	})
	logger.Info().
		Uint("project_id", project.ID).
		Str("folder", project.FolderName).
		Str("type", project.Type).
		Msg("[Project] created")
}

func (s *ProjectService) refreshProjectsGauge() {
	var total int64
	if err := s.db.Model(&models.Project{}).Count(&total).Error; err == nil {
		SetProjectsGauge(total)
	}
}
