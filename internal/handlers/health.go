package handlers

import (
	"net/http"

	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	serviceName = "VFX Pipeline Companion API"
	Version     = "1.0.0"
)

// HealthHandler provides liveness and info endpoints.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root answers GET and HEAD so launchers can wait for the API to come up.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName,
		"status":  "running",
		"version": Version,
		"health":  "/health",
	})
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"message": serviceName + " is running",
		"version": Version,
		"components": gin.H{
			"database":    dbStatus,
			"queue_mode":  queueMode,
			"sse_clients": services.GetSSEHub().ClientCount(),
		},
	})
}
