package health

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// pinger is implemented by mailboxes backed by a remote store
type pinger interface {
	Ping(ctx context.Context) error
}

// Get handles health check requests
// @Summary      Health check
// @Description  Reports database and handoff mailbox status
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{} "Service is healthy"
// @Failure      503 {object} map[string]interface{} "A dependency is unhealthy"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := getDatabaseStatus(deps)
		mailbox := getMailboxStatus(c.Request.Context(), deps)

		status := http.StatusOK
		overall := "ok"
		if database["status"] == "unhealthy" || mailbox["status"] == "unhealthy" {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  database,
			"mailbox":   mailbox,
		})
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	return gin.H{"status": "healthy"}
}

// getMailboxStatus checks the shared directory and, for remote mailboxes, the store
func getMailboxStatus(ctx context.Context, deps *types.Dependencies) gin.H {
	if deps == nil || deps.Mailbox == nil {
		return gin.H{"status": "not configured"}
	}

	if p, ok := deps.Mailbox.(pinger); ok {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return gin.H{"status": "unhealthy", "error": err.Error()}
		}
	}

	// The directory is created on first save
	if _, err := os.Stat(deps.Mailbox.SharedDir()); err != nil && !os.IsNotExist(err) {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	return gin.H{"status": "healthy", "shared_dir": deps.Mailbox.SharedDir()}
}
