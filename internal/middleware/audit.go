package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditLog records every write request (POST/PUT/DELETE) to system_logs.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath(), method)
		message := formatAuditMessage(method, c.Request.URL.Path, status)

		extra := map[string]interface{}{
			"method":     method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": GetRequestID(c),
			"audit":      true,
		}
		if status >= http.StatusBadRequest {
			services.LogWarning(module, action, message, c.ClientIP(), c.Request.UserAgent(), extra)
			return
		}
		services.LogInfo(module, action, message, c.ClientIP(), c.Request.UserAgent(), extra)
	}
}

// parseRouteInfo derives module and action from a route pattern.
//
//	"/projects/:id/metadata" PUT  -> projects, update_metadata
//	"/tools/:id/launch"      POST -> tools, launch
//	"/projects"              POST -> projects, create
func parseRouteInfo(fullPath, method string) (module, action string) {
	var segments []string
	for _, s := range strings.Split(strings.Trim(fullPath, "/"), "/") {
		if s != "" && !strings.HasPrefix(s, ":") {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return "unknown", strings.ToLower(method)
	}
	module = segments[0]

	switch method {
	case http.MethodPost:
		action = "create"
	case http.MethodPut:
		action = "update"
	case http.MethodDelete:
		action = "delete"
	}

	if len(segments) > 1 {
		sub := strings.ReplaceAll(segments[len(segments)-1], "-", "_")
		if method == http.MethodPost && sub != "items" {
			action = sub
		} else {
			action = action + "_" + sub
		}
	}
	return module, action
}

func formatAuditMessage(method, path string, status int) string {
	result := "OK"
	if status >= http.StatusBadRequest {
		result = "Failed"
	}
	return fmt.Sprintf("[Audit] %s %s -> %d %s", method, path, status, result)
}
