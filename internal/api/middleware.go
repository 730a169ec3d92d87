package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vilo-admin/internal/config"
	"vilo-admin/internal/logging"
)

func RequestLoggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Infof("Request: %s %s, Status: %d, Latency: %v", method, path, status, latency)
	}
}

// AuthMiddleware guards the admin surface with bearer tokens. A missing or
// unknown token means the session expired (401). The viewer token grants
// read-only access: mutating methods get a 403 without ending the session.
func AuthMiddleware(cfg config.Config, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		switch token {
		case "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Session expirée",
			})
		case cfg.API.AdminToken:
			c.Next()
		case cfg.API.ViewerToken:
			if c.Request.Method != http.MethodGet {
				logger.Warnf("Viewer token denied %s %s", c.Request.Method, c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Accès refusé",
				})
				return
			}
			c.Next()
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Session expirée",
			})
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimPrefix(header, prefix)
	}
	return ""
}
