package handler

import (
	"time"

	"github.com/dkhalitov/linkcut/internal/limiter"
	"github.com/dkhalitov/linkcut/internal/middleware"
	"github.com/dkhalitov/linkcut/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(
	linkService service.LinkService,
	writeLimiter *limiter.FixedWindow,
	writeWindow time.Duration,
	surgeGuard *middleware.SurgeGuard,
	apiKeyMiddleware gin.HandlerFunc,
	baseURL string,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware для логгирования
	router.Use(func(c *gin.Context) {
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
	})

	// Локальный surge guard для всех запросов, включая редиректы
	router.Use(surgeGuard.Middleware())

	linkHandler := NewLinkHandler(linkService, baseURL, logger)

	// API v.1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck)

		// Применяем API Key middleware только к защищённым эндпоинтам
		if apiKeyMiddleware != nil {
			v1.Use(apiKeyMiddleware)
		}

		// Распределённый лимит — только на запись
		v1.POST("/links", middleware.WriteLimit(writeLimiter, writeWindow, logger), linkHandler.CreateLink)
		v1.GET("/links/:code/stats", linkHandler.GetStats)
	}

	// Редирект (корневой путь) - без API key проверки и без write-лимита
	router.GET("/:code", linkHandler.Redirect)

	return router
}
