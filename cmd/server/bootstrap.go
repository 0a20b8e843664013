package main

import (
	"context"

	"github.com/alexparks333/AlexPipeline/internal/config"
	"github.com/alexparks333/AlexPipeline/internal/middleware"
	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// appServices holds all initialized services needed by the application.
type appServices struct {
	db          *gorm.DB
	catalog     *scaffold.Catalog
	settings    *services.SettingsService
	projects    *services.ProjectService
	metadata    *services.ProjectMetadataService
	tools       *services.ToolService
	libraries   *services.LibraryService
	systemLogs  *services.SystemLogService
	taskQueue   services.TaskQueue
	worker      *services.Worker
	scheduler   *services.ScanScheduler
	watcher     *services.WorkspaceWatcher
	rateLimiter *middleware.RateLimiter
	cancel      context.CancelFunc
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	db := models.GetDB()

	// Versioned migrations, including the sample tool seed
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(db)

	ctx, cancel := context.WithCancel(context.Background())
	services.StartLogCleanupScheduler(ctx, db, cfg.Log.RetentionDays)

	catalog, err := scaffold.LoadCatalogFile(cfg.Templates.File)
	if err != nil {
		logger.Fatalf("Failed to load folder templates: %v", err)
	}

	fsys := afero.NewOsFs()
	settings := services.NewSettingsService(db, fsys, cfg.Workspace.DefaultRoot)
	projects := services.NewProjectService(db, scaffold.NewEngine(fsys), catalog, settings)

	svc := &appServices{
		db:          db,
		catalog:     catalog,
		settings:    settings,
		projects:    projects,
		metadata:    services.NewProjectMetadataService(db),
		tools:       services.NewToolService(db, services.ExecLauncher{}),
		libraries:   services.NewLibraryService(db),
		systemLogs:  services.NewSystemLogService(db),
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		cancel:      cancel,
	}

	// Background scans go through the task queue: Redis when enabled, in-process otherwise
	svc.taskQueue = services.InitTaskQueue(cfg, projects.ProcessScanTask)
	if svc.taskQueue.IsAsync() {
		svc.worker = services.NewWorker(&cfg.Redis)
		if svc.worker != nil {
			svc.worker.SetProcessor(projects.ProcessScanTask)
			if err := svc.worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start scan worker")
			}
		}
	}

	if cfg.Scan.Cron != "" {
		scheduler, err := services.NewScanScheduler(cfg.Scan.Cron, svc.taskQueue)
		if err != nil {
			logger.Warn().Err(err).Msg("Scan scheduler disabled")
		} else {
			scheduler.Start()
			svc.scheduler = scheduler
		}
	}

	if cfg.Scan.Watch {
		svc.startWatcher(ctx)
	}

	return svc
}

func (s *appServices) startWatcher(ctx context.Context) {
	root := s.settings.RootPath()
	if root == "" {
		logger.Warn().Msg("Workspace watcher disabled: no root path configured")
		return
	}

	watcher, err := services.NewWorkspaceWatcher(root, s.taskQueue)
	if err != nil {
		logger.Warn().Err(err).Msg("Workspace watcher disabled")
		return
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Warn().Err(err).Str("root", root).Msg("Workspace watcher disabled")
		return
	}
	s.watcher = watcher
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.rateLimiter.Stop()
	s.cancel()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}

	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}
