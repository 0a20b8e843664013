package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectMetadataService struct {
	db *gorm.DB
}

func NewProjectMetadataService(db *gorm.DB) *ProjectMetadataService {
	return &ProjectMetadataService{db: db}
}

type UpdateMetadataRequest struct {
	Client         *string             `json:"client"`
	DeliveryDate   Nullable[time.Time] `json:"delivery_date"` // explicit null clears the date
	Description    *string             `json:"description"`
	Notes          *string             `json:"notes"`
	Tags           *[]string           `json:"tags"`
	Status         *string             `json:"status"`
	Priority       *string             `json:"priority"`
	EstimatedHours *int                `json:"estimated_hours"`
	ActualHours    *int                `json:"actual_hours"`
}

// Get returns the project's metadata, or an unsaved default when none was written yet
func (s *ProjectMetadataService) Get(projectID uint) (*models.ProjectMetadata, error) {
	project, err := s.project(projectID)
	if err != nil {
		return nil, err
	}

	var meta models.ProjectMetadata
	err = s.db.Where("project_id = ?", projectID).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultMetadata(project), nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// Upsert creates the metadata row on first write and patches it afterwards
func (s *ProjectMetadataService) Upsert(projectID uint, req *UpdateMetadataRequest) (*models.ProjectMetadata, error) {
	project, err := s.project(projectID)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && !lo.Contains(models.MetadataStatuses, *req.Status) {
		return nil, response.NewValidation(fmt.Sprintf("invalid status %q, expected one of %s", *req.Status, strings.Join(models.MetadataStatuses, ", ")))
	}
	if req.Priority != nil && !lo.Contains(models.MetadataPriorities, *req.Priority) {
		return nil, response.NewValidation(fmt.Sprintf("invalid priority %q, expected one of %s", *req.Priority, strings.Join(models.MetadataPriorities, ", ")))
	}
	if (req.EstimatedHours != nil && *req.EstimatedHours < 0) || (req.ActualHours != nil && *req.ActualHours < 0) {
		return nil, response.NewValidation("hours cannot be negative")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var meta models.ProjectMetadata
		err := tx.Where("project_id = ?", projectID).First(&meta).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			meta = *defaultMetadata(project)
			if err := tx.Create(&meta).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Client != nil {
			updates["client"] = *req.Client
		}
		if req.DeliveryDate.Set {
			if req.DeliveryDate.Value == nil {
				updates["delivery_date"] = nil
			} else {
				updates["delivery_date"] = req.DeliveryDate.Value.UTC()
			}
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		if req.Tags != nil {
			updates["tags"] = datatypes.NewJSONType(NormalizeTags(*req.Tags))
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.Priority != nil {
			updates["priority"] = *req.Priority
		}
		if req.EstimatedHours != nil {
			updates["estimated_hours"] = *req.EstimatedHours
		}
		if req.ActualHours != nil {
			updates["actual_hours"] = *req.ActualHours
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&meta).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	var meta models.ProjectMetadata
	if err := s.db.Where("project_id = ?", projectID).First(&meta).Error; err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *ProjectMetadataService) project(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

func defaultMetadata(project *models.Project) *models.ProjectMetadata {
	return &models.ProjectMetadata{
		ProjectID: project.ID,
		Client:    project.Client,
		Tags:      datatypes.NewJSONType([]string{}),
		Status:    models.StatusInProgress,
		Priority:  models.PriorityMedium,
	}
}

// NormalizeTags trims tags, drops empty ones and removes duplicates keeping first-seen order
func NormalizeTags(tags []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(tags, func(t string, _ int) string {
		return strings.TrimSpace(t)
	})))
}
