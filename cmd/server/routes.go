package main

import (
	"github.com/alexparks333/AlexPipeline/internal/handlers"
	"github.com/alexparks333/AlexPipeline/internal/middleware"
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())
	r.Use(middleware.AuditLog())

	limited := svc.rateLimiter.Middleware()

	// Health
	healthHandler := handlers.NewHealthHandler(svc.db)
	r.GET("/", healthHandler.Root)
	r.HEAD("/", healthHandler.Root)
	r.GET("/health", healthHandler.CheckHealth)
	r.GET("/metrics", handlers.Metrics(svc.db))

	// Settings
	settingsHandler := handlers.NewSettingsHandler(svc.settings)
	r.GET("/settings", settingsHandler.Get)
	r.POST("/settings", settingsHandler.Update)
	r.PUT("/settings", settingsHandler.Update)
	r.POST("/settings/validate-path", settingsHandler.ValidatePath)

	// Projects
	projectHandler := handlers.NewProjectHandler(svc.projects, svc.metadata)
	projects := r.Group("/projects")
	{
		projects.GET("", projectHandler.List)
		projects.POST("", limited, projectHandler.Create)
		projects.GET("/next-number", projectHandler.NextNumber)
		projects.POST("/create", limited, projectHandler.CreateWithShots)
		projects.GET("/scan", limited, projectHandler.Scan)
		projects.GET("/:id", projectHandler.GetByID)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)
		projects.POST("/:id/folders", limited, projectHandler.ApplyTemplate)
		projects.GET("/:id/metadata", projectHandler.GetMetadata)
		projects.PUT("/:id/metadata", projectHandler.UpdateMetadata)
	}

	// Tools
	toolHandler := handlers.NewToolHandler(svc.tools)
	tools := r.Group("/tools")
	{
		tools.GET("", toolHandler.List)
		tools.POST("", toolHandler.Create)
		tools.GET("/:id", toolHandler.GetByID)
		tools.PUT("/:id", toolHandler.Update)
		tools.DELETE("/:id", toolHandler.Delete)
		tools.POST("/:id/launch", limited, toolHandler.Launch)
	}

	// Libraries
	libraryHandler := handlers.NewLibraryHandler(svc.libraries)
	libraries := r.Group("/libraries")
	{
		libraries.GET("", libraryHandler.List)
		libraries.POST("", libraryHandler.Create)
		libraries.GET("/:id", libraryHandler.GetByID)
		libraries.PUT("/:id", libraryHandler.Update)
		libraries.DELETE("/:id", libraryHandler.Delete)
		libraries.GET("/:id/items", libraryHandler.ListItems)
		libraries.POST("/:id/items", libraryHandler.CreateItem)
		libraries.PUT("/:id/items/:item_id", libraryHandler.UpdateItem)
		libraries.DELETE("/:id/items/:item_id", libraryHandler.DeleteItem)
	}

	// Templates
	r.GET("/templates", handlers.NewTemplateHandler(svc.catalog).List)

	// SSE
	sseHandler := handlers.NewSSEHandler(services.GetSSEHub())
	r.GET("/events/projects", sseHandler.StreamProjectEvents)

	// System logs
	systemLogHandler := handlers.NewSystemLogHandler(svc.systemLogs)
	r.GET("/system-logs", systemLogHandler.List)
	r.GET("/system-logs/modules", systemLogHandler.GetModules)
}
