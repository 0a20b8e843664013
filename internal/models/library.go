package models

import (
	"time"

	"gorm.io/datatypes"
)

// Library groups reusable assets such as HDRIs, textures or reference clips
type Library struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Category    string        `gorm:"size:100" json:"category"`
	Description string        `gorm:"type:text" json:"description"`
	Items       []LibraryItem `gorm:"foreignKey:LibraryID" json:"items"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Library) TableName() string { return "libraries" }

type LibraryItem struct {
	ID          uint                         `gorm:"primaryKey" json:"id"`
	LibraryID   uint                         `gorm:"not null;index" json:"library_id"`
	Name        string                       `gorm:"size:255;not null" json:"name"`
	Path        string                       `gorm:"type:text;not null" json:"path"`
	PreviewPath string                       `gorm:"type:text" json:"preview_path"`
	Tags        datatypes.JSONType[[]string] `json:"tags"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func (LibraryItem) TableName() string { return "library_items" }
