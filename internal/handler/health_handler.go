package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/productdash_api/pkg/github"
)

var startTime = time.Now()

// RateLimitReader reports the GitHub rate limit of the configured token.
type RateLimitReader interface {
	GetRateLimit(ctx context.Context) (*github.RateLimitResponse, error)
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	github RateLimitReader
	repo   string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(gh RateLimitReader, repo string) *HealthHandler {
	return &HealthHandler{github: gh, repo: repo}
}

// GetHealth responds with service uptime and GitHub status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ghStatus := gin.H{"status": "connected", "repo": h.repo}
	status := "healthy"

	limits, err := h.github.GetRateLimit(ctx)
	if err != nil {
		status = "degraded"
		ghStatus["status"] = "disconnected"
		if github.IsAuthFailure(err) {
			ghStatus["status"] = "unauthorized"
		}
	} else {
		core := limits.Resources.Core
		ghStatus["rateLimit"] = gin.H{
			"limit":     core.Limit,
			"remaining": core.Remaining,
			"reset":     time.Unix(core.Reset, 0).UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"github":  ghStatus,
	})
}
