package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents a registered project folder on disk
type Project struct {
	ID            uint                         `gorm:"primaryKey" json:"id"`
	Name          string                       `gorm:"size:255;not null;index" json:"name"`
	FolderName    string                       `gorm:"size:255;not null;uniqueIndex" json:"folder_name"` // e.g. 250001_ShowName
	Type          string                       `gorm:"size:100;not null" json:"type"`                    // tracking, houdini_fx, compositing, general_vfx, vfx
	Client        string                       `gorm:"size:255" json:"client"`
	WorkspacePath string                       `gorm:"type:text;not null" json:"workspace_path"`
	Shots         datatypes.JSONType[[]string] `json:"shots"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// ShotList returns the shots as a plain slice, never nil.
func (p *Project) ShotList() []string {
	shots := p.Shots.Data()
	if shots == nil {
		return []string{}
	}
	return shots
}
