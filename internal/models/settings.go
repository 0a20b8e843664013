package models

import "time"

// SettingsID is the primary key of the only settings row.
const SettingsID = 1

// Settings is the application-wide configuration singleton
type Settings struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RootPath      string    `gorm:"type:text" json:"root_path"`
	AutoLaunch    bool      `json:"auto_launch"`
	DarkMode      bool      `json:"dark_mode"`
	Notifications bool      `json:"notifications"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Settings) TableName() string { return "settings" }
