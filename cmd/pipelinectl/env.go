package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexparks333/AlexPipeline/internal/config"
	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// loadConfig reads the config file and points the logger at stderr so
// command output on stdout stays machine readable.
func (o *cliOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.InitWithWriter(o.logLevel, cmd.ErrOrStderr())
	return cfg, nil
}

func (o *cliOptions) catalog(cfg *config.Config) (*scaffold.Catalog, error) {
	catalog, err := scaffold.LoadCatalogFile(cfg.Templates.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load folder templates: %w", err)
	}
	return catalog, nil
}

// openDB connects and applies pending migrations. The caller closes it.
func (o *cliOptions) openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := models.Open(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if err := models.Migrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}
	return db, closeDB, nil
}

// projectService wires the registry against the real filesystem.
func (o *cliOptions) projectService(cmd *cobra.Command) (*services.ProjectService, func(), error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := o.catalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, closeDB, err := o.openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	fsys := afero.NewOsFs()
	settings := services.NewSettingsService(db, fsys, cfg.Workspace.DefaultRoot)
	return services.NewProjectService(db, scaffold.NewEngine(fsys), catalog, settings), closeDB, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
