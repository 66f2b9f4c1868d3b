package main

import (
	"context"
	"time"

	handlers "BotonPanico/internal/handler"
	"BotonPanico/internal/models"
	"BotonPanico/pkg/cache"
	"BotonPanico/pkg/config"
	"BotonPanico/pkg/logger"
	"BotonPanico/pkg/metrics"
	"BotonPanico/pkg/middleware"
	"BotonPanico/pkg/notification"
	"BotonPanico/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := util.InitDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", zap.Error(err))
		return
	}
	if err := db.AutoMigrate(&models.User{}, &models.Alert{}); err != nil {
		logger.Error("failed to migrate schema", zap.Error(err))
		return
	}

	dirCache, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Error("failed to build cache", zap.Error(err))
		return
	}
	defer dirCache.Close()

	directory := models.NewDirectory(db, dirCache, 5*time.Minute)
	pusher := notification.NewPushClient(cfg.Push)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:       cfg.RateLimit,
		SkipPaths:  []string{"/metrics", cfg.APIPrefix + "/system/health"},
		AddHeaders: true,
	}, nil).WithObserver(middleware.NewPrometheusObserver())

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), metrics.MonitorMiddleware(), limiter.Middleware())
	engine.GET("/metrics", metrics.Handler())

	handlers.NewHandlers(db, directory, pusher, limiter).Register(engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartSystemMonitor(ctx, 15*time.Second)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := engine.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
