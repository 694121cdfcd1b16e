package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
)

const healthPingTimeout = 2 * time.Second

// HealthController reports liveness
type HealthController struct {
	checker repositories.HealthChecker
	logger  zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(checker repositories.HealthChecker, logger zerolog.Logger) *HealthController {
	return &HealthController{checker: checker, logger: logger}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := c.checker.Ping(pingCtx); err != nil {
		c.logger.Warn().Err(err).Msg("Health check failed to reach the database")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}
