package models

import "time"

// Tool is a launchable DCC application or utility
type Tool struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:255;not null;index" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	Category       string     `gorm:"size:100;default:utility" json:"category"` // utility, 3d, compositing, tracking, ...
	ExecutablePath string     `gorm:"type:text" json:"executable_path"`
	IsFavorite     bool       `gorm:"default:false" json:"is_favorite"`
	LastUsed       *time.Time `json:"last_used"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Tool) TableName() string { return "tools" }
