package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkhalitov/linkcut/internal/limiter"
	"github.com/dkhalitov/linkcut/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestWriteLimit проверяет распределённый fixed window на write-эндпоинте
func TestWriteLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	window := time.Minute
	l := limiter.NewFixedWindow(limiter.NewMemoryCounterStore(), 3, window)

	router := gin.New()
	router.POST("/links", middleware.WriteLimit(l, window, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	})

	// Первые 3 запроса проходят
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/links", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	// Четвёртый отклоняется
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/links", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

// TestWriteLimit_PerIdentity проверяет, что лимит считается на identity
func TestWriteLimit_PerIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	window := time.Minute
	l := limiter.NewFixedWindow(limiter.NewMemoryCounterStore(), 1, window)
	apiKeys := map[string]string{"key-a": "team-a", "key-b": "team-b"}

	router := gin.New()
	router.POST("/links",
		middleware.RequireAPIKey(apiKeys),
		middleware.WriteLimit(l, window, zap.NewNop()),
		func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"status": "ok"})
		},
	)

	do := func(key string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/links", nil)
		req.Header.Set("X-API-Key", key)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, do("key-a"))
	assert.Equal(t, http.StatusTooManyRequests, do("key-a"))
	// Лимит team-a не затрагивает team-b
	assert.Equal(t, http.StatusCreated, do("key-b"))
}

// TestSurgeGuard проверяет локальный token bucket
func TestSurgeGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sg := middleware.NewSurgeGuard(middleware.SurgeConfig{
		RequestsPerSecond: 5,
		BurstSize:         5,
		CleanupInterval:   time.Minute,
	})

	router := gin.New()
	router.Use(sg.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Первые 5 запросов проходят (в пределах burst)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Следующий запрос ограничивается
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

// TestAPIKey_Required проверяет отказ без ключа и допуск с валидным ключом
func TestAPIKey_Required(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/links", middleware.RequireAPIKey(map[string]string{"secret": "ops"}), func(c *gin.Context) {
		name, ok := middleware.GetAPIKeyName(c)
		assert.True(t, ok)
		assert.Equal(t, "ops", name)
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	})

	// Без ключа
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/links", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// С невалидным ключом
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/links", nil)
	req.Header.Set("X-API-Key", "wrong")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// С валидным ключом через Bearer
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/links", nil)
	req.Header.Set("Authorization", "Bearer secret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}
