package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexparks333/AlexPipeline/internal/config"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to the configured database without touching the global DB.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.DSN); dir != "." && !strings.HasPrefix(cfg.DSN, "file:") && cfg.DSN != ":memory:" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// migrations is the ordered schema history. Append, never edit released entries.
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202501010001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&Project{},
					&ProjectMetadata{},
					&Tool{},
					&Library{},
					&LibraryItem{},
					&Settings{},
					&SystemLog{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"system_logs", "settings", "library_items", "libraries",
					"tools", "project_metadata", "projects",
				)
			},
		},
		{
			ID: "202501150001_seed_sample_tools",
			Migrate: func(tx *gorm.DB) error {
				return seedTools(tx)
			},
			Rollback: func(tx *gorm.DB) error {
				return nil
			},
		},
	}
}

// Migrate applies pending schema migrations to db.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func AutoMigrate() error {
	return Migrate(DB)
}

func GetDB() *gorm.DB {
	return DB
}

// DefaultTools are offered on a fresh install so the launcher is not empty.
var DefaultTools = []Tool{
	{Name: "Blender", Description: "3D modeling and animation software", Category: "3d", IsFavorite: true},
	{Name: "DaVinci Resolve", Description: "Video editing and color grading", Category: "editing"},
	{Name: "PFTrack", Description: "Camera tracking software", Category: "tracking", IsFavorite: true},
}

// seedTools inserts DefaultTools only into an empty table
func seedTools(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Tool{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tools := make([]Tool, len(DefaultTools))
	copy(tools, DefaultTools)
	return db.Create(&tools).Error
}

// SeedDefaultData creates default data if not exists
func SeedDefaultData() error {
	return seedTools(DB)
}
