package handlers

import (
	"net/http"

	"BotonPanico/pkg/middleware"
	"BotonPanico/pkg/response"

	"github.com/gin-gonic/gin"
)

// UpdateRateLimiterConfig swaps the limiter settings at runtime.
func (h *Handlers) UpdateRateLimiterConfig(c *gin.Context) {
	var config middleware.RateLimiterConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request")
		return
	}

	h.limiter.UpdateConfig(config)
	response.Success(c, gin.H{"message": "rate limiter config updated"})
}

// HealthCheck reports whether the database is reachable.
func (h *Handlers) HealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
