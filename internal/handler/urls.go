package handlers

import (
	"BotonPanico/internal/models"
	"BotonPanico/pkg/config"
	"BotonPanico/pkg/middleware"
	"BotonPanico/pkg/notification"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db        *gorm.DB
	directory *models.Directory
	pusher    notification.PushClient
	limiter   *middleware.RateLimiter
}

func NewHandlers(db *gorm.DB, directory *models.Directory, pusher notification.PushClient, limiter *middleware.RateLimiter) *Handlers {
	return &Handlers{
		db:        db,
		directory: directory,
		pusher:    pusher,
		limiter:   limiter,
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	r := engine.Group(config.GlobalConfig.APIPrefix)

	r.Use(middleware.InjectDB(h.db))

	// Register System Module Routes
	h.registerSystemRoutes(r)

	// Register Business Module Routes
	h.registerUserRoutes(r)
	h.registerAlertRoutes(r)
}

// Emergency Alert Module
func (h *Handlers) registerAlertRoutes(r *gin.RouterGroup) {
	emergencias := r.Group("/emergencias")
	{
		emergencias.POST("", h.handleCreateAlert)

		emergencias.GET("/:telefono", h.handleListAlerts)

		emergencias.PUT("/finalizar/:id", h.handleFinalizeAlert)
	}
}

// Directory Module
func (h *Handlers) registerUserRoutes(r *gin.RouterGroup) {
	usuarios := r.Group("/usuarios")
	{
		usuarios.POST("", h.handleRegisterUser)
	}
}

func (h *Handlers) registerSystemRoutes(r *gin.RouterGroup) {
	system := r.Group("/system")
	{
		system.POST("/rate-limiter/config", h.UpdateRateLimiterConfig)

		system.GET("/health", h.HealthCheck)
	}
}
