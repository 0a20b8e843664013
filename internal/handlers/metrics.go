package handlers

import (
	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Metrics serves Prometheus metrics. The project gauge is refreshed from the
// database on every scrape so it stays right after out-of-band changes.
func Metrics(db *gorm.DB) gin.HandlerFunc {
	handler := services.MetricsHandler()
	return func(c *gin.Context) {
		var total int64
		if err := db.Model(&models.Project{}).Count(&total).Error; err == nil {
			services.SetProjectsGauge(total)
		}
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
