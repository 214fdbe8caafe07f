package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkhalitov/linkcut/internal/cache"
	"github.com/dkhalitov/linkcut/internal/config"
	"github.com/dkhalitov/linkcut/internal/handler"
	"github.com/dkhalitov/linkcut/internal/limiter"
	"github.com/dkhalitov/linkcut/internal/middleware"
	"github.com/dkhalitov/linkcut/internal/repository"
	"github.com/dkhalitov/linkcut/internal/repository/migrations"
	"github.com/dkhalitov/linkcut/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Миграции схемы
	if err := migrations.Up(repository.DSN(cfg.DB)); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Подключение к БД (postgres)
	db, err := repository.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Подключение к Redis
	redis, err := repository.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()
	logger.Info("Connected to Redis")

	// Инициализация репозиториев
	linkRepo := repository.NewLinkRepository(db)
	cacheRepo := repository.NewCacheRepository(redis)
	clickRepo := repository.NewClickRepository(db)

	// Двухуровневый кэш: локальный LRU перед Redis
	localCache := cache.NewLRU(cfg.Cache.LocalSize, cfg.Cache.LocalTTL)
	linkCache := cache.NewTwoTier(localCache, cacheRepo, cfg.Cache.RedisTTL, logger)

	// Инициализация процессора кликов (Worker Pool)
	clickProcessor := service.NewClickProcessor(clickRepo, linkRepo, logger)
	clickProcessor.Start()
	defer clickProcessor.Stop()

	// Инициализация сервиса
	allocator := service.NewAllocator(linkRepo)
	linkService := service.NewLinkService(linkRepo, linkCache, allocator, clickProcessor, logger)

	// Распределённый лимитер записи поверх Redis
	counterStore := limiter.NewRedisCounterStore(redis.Client)
	writeLimiter := limiter.NewFixedWindow(counterStore, int64(cfg.RateLimit.MaxRequests), cfg.RateLimit.Window)

	// Локальный surge guard
	surgeGuard := middleware.NewSurgeGuard(middleware.SurgeConfig{
		RequestsPerSecond: cfg.RateLimit.SurgeRPS,
		BurstSize:         cfg.RateLimit.SurgeBurst,
		CleanupInterval:   time.Minute,
	})

	var apiKeyMiddleware gin.HandlerFunc
	if len(cfg.Auth.APIKeys) > 0 {
		apiKeyMiddleware = middleware.RequireAPIKey(cfg.Auth.APIKeys)
		logger.Info("API key authentication enabled", zap.Int("keys_count", len(cfg.Auth.APIKeys)))
	}

	// Настройка роутера
	router := handler.NewRouter(
		linkService,
		writeLimiter,
		cfg.RateLimit.Window,
		surgeGuard,
		apiKeyMiddleware,
		cfg.App.BaseURL,
		logger,
	)

	// Запуск сервера
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
