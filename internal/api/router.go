package api

import (
	"context"
	"time"

	"fridge-chef/internal/api/handlers/chat"
	"fridge-chef/internal/api/handlers/health"
	"fridge-chef/internal/api/middleware"
	"fridge-chef/internal/core/ai"
	"fridge-chef/internal/core/ai/cache"
	"fridge-chef/internal/core/ai/image"
	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The pipeline makes several upstream calls per request, so the per-request
// deadline is generous.
const timeoutDuration = 180 * time.Second

// SetupRouter builds the gin engine with the full middleware chain and all
// routes registered.
func SetupRouter(cfg *config.Config, aiCache cache.Cache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	aiClient := ai.NewClient(cfg)
	aiService := ai.NewService(cfg, aiClient, aiCache)
	processor := image.NewProcessor(cfg.Image.MaxSizeBytes)
	chatHandler := chat.NewHandler(cfg, aiService, processor)

	// Per-request deadline plus config injection for the health handler.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(common.ErrRequestTimeout.Status, gin.H{
				"error": common.ErrRequestTimeout.Message,
				"code":  common.ErrRequestTimeout.Code,
			})
			c.Abort()
		}
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(common.ErrNotFound.Status, gin.H{
			"error": common.ErrNotFound.Message,
			"code":  common.ErrNotFound.Code,
		})
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	router.POST("/chat", chatHandler.Handle)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Image.MaxSizeBytes),
	)

	return router, nil
}
