package services

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"gorm.io/gorm"
)

const DefaultToolCategory = "utility"

// Launcher starts an external program without waiting for it.
type Launcher interface {
	Launch(path string) error
}

// ExecLauncher starts executables directly, never through a shell.
type ExecLauncher struct{}

func (ExecLauncher) Launch(path string) error {
	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return err
	}
	// reap the child when it exits so it does not linger as a zombie
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

type ToolService struct {
	db       *gorm.DB
	launcher Launcher
	now      func() time.Time
}

func NewToolService(db *gorm.DB, launcher Launcher) *ToolService {
	if launcher == nil {
		launcher = ExecLauncher{}
	}
	return &ToolService{db: db, launcher: launcher, now: time.Now}
}

type ToolListRequest struct {
	Category string `form:"category"`
	Favorite *bool  `form:"favorite"`
}

type CreateToolRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	ExecutablePath string `json:"executable_path"`
	IsFavorite     bool   `json:"is_favorite"`
}

type UpdateToolRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	ExecutablePath *string `json:"executable_path"`
	IsFavorite     *bool   `json:"is_favorite"`
}

type LaunchResult struct {
	Tool    *models.Tool `json:"tool"`
	Message string       `json:"message"`
}

// List returns tools, favorites first
func (s *ToolService) List(req *ToolListRequest) ([]models.Tool, error) {
	var tools []models.Tool
	query := s.db.Model(&models.Tool{})
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Favorite != nil {
		query = query.Where("is_favorite = ?", *req.Favorite)
	}
	if err := query.Order("is_favorite DESC, name ASC").Find(&tools).Error; err != nil {
		return nil, err
	}
	return tools, nil
}

func (s *ToolService) GetByID(id uint) (*models.Tool, error) {
	var tool models.Tool
	if err := s.db.First(&tool, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("tool not found")
		}
		return nil, err
	}
	return &tool, nil
}

func (s *ToolService) Create(req *CreateToolRequest) (*models.Tool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidation("name is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultToolCategory
	}

	tool := models.Tool{
		Name:           name,
		Description:    req.Description,
		Category:       category,
		ExecutablePath: strings.TrimSpace(req.ExecutablePath),
		IsFavorite:     req.IsFavorite,
	}
	if err := s.db.Create(&tool).Error; err != nil {
		return nil, err
	}
	return &tool, nil
}

func (s *ToolService) Update(id uint, req *UpdateToolRequest) (*models.Tool, error) {
	tool, err := s.GetByID(id)
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
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = DefaultToolCategory
		}
		updates["category"] = category
	}
	if req.ExecutablePath != nil {
		updates["executable_path"] = strings.TrimSpace(*req.ExecutablePath)
	}
	if req.IsFavorite != nil {
		updates["is_favorite"] = *req.IsFavorite
	}

	if len(updates) > 0 {
		if err := s.db.Model(tool).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

func (s *ToolService) Delete(id uint) error {
	result := s.db.Delete(&models.Tool{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("tool not found")
	}
	return nil
}

// Launch records the use and starts the tool's executable. last_used is
// updated even when the executable turns out to be missing.
func (s *ToolService) Launch(id uint) (*LaunchResult, error) {
	tool, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.db.Model(tool).Update("last_used", now).Error; err != nil {
		return nil, err
	}
	tool.LastUsed = &now

	if tool.ExecutablePath == "" {
		toolLaunches.WithLabelValues("not_found").Inc()
		return nil, response.NewValidation("tool executable not found")
	}
	if info, err := os.Stat(tool.ExecutablePath); err != nil || info.IsDir() {
		toolLaunches.WithLabelValues("not_found").Inc()
		return nil, response.NewValidation("tool executable not found")
	}

	if err := s.launcher.Launch(tool.ExecutablePath); err != nil {
		toolLaunches.WithLabelValues("error").Inc()
		logger.Error().Err(err).Str("tool", tool.Name).Str("path", tool.ExecutablePath).Msg("[Tool] launch failed")
		return nil, response.NewIOFailure(fmt.Sprintf("failed to launch %s", tool.ExecutablePath), err)
	}

	toolLaunches.WithLabelValues("ok").Inc()
	LogInfo("tool", "launch", fmt.Sprintf("Launched %s", tool.Name), "", "", map[string]interface{}{
		"tool_id": tool.ID,
		"path":    tool.ExecutablePath,
	})
	logger.Info().Str("tool", tool.Name).Str("path", tool.ExecutablePath).Msg("[Tool] launched")

	return &LaunchResult{Tool: tool, Message: fmt.Sprintf("%s launched", tool.Name)}, nil
}
