package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	MetadataStatuses   = []string{StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled}
	MetadataPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

// ProjectMetadata holds production bookkeeping for a project. At most one row per project.
type ProjectMetadata struct {
	ID             uint                         `gorm:"primaryKey" json:"id"`
	ProjectID      uint                         `gorm:"not null;uniqueIndex" json:"project_id"`
	Client         string                       `gorm:"size:255" json:"client"`
	DeliveryDate   *time.Time                   `json:"delivery_date"`
	Description    string                       `gorm:"type:text" json:"description"`
	Notes          string                       `gorm:"type:text" json:"notes"`
	Tags           datatypes.JSONType[[]string] `json:"tags"`
	Status         string                       `gorm:"size:50;default:in_progress" json:"status"`
	Priority       string                       `gorm:"size:20;default:medium" json:"priority"`
	EstimatedHours int                          `gorm:"default:0" json:"estimated_hours"`
	ActualHours    int                          `gorm:"default:0" json:"actual_hours"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

func (ProjectMetadata) TableName() string { return "project_metadata" }
