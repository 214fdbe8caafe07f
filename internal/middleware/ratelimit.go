package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/dkhalitov/linkcut/internal/limiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// WriteLimit ограничивает shorten-запросы через распределённый fixed window.
// Identity — имя API-ключа, если он провалидирован, иначе IP клиента.
// Редиректы этим лимитером не гейтятся: их защищает кэш и SurgeGuard.
func WriteLimit(l *limiter.FixedWindow, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := "ip:" + c.ClientIP()
		if name, ok := GetAPIKeyName(c); ok {
			identity = "key:" + name
		}

		allowed, err := l.TryAcquire(c.Request.Context(), identity)
		if err != nil {
			// Сбой хранилища счётчиков не должен класть запись ссылок:
			// деградируем в открытое состояние и логируем
			logger.Warn("rate limit store unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"message":     "Слишком много запросов, попробуйте позже",
				"retry_after": int(window / time.Second),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SurgeConfig конфигурация локального token bucket
type SurgeConfig struct {
	RequestsPerSecond float64       // Количество запросов в секунду
	BurstSize         int           // Максимальный размер burst
	CleanupInterval   time.Duration // Интервал очистки неактивных посетителей
}

// visitor представляет rate limiter для одного клиента
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SurgeGuard — локальный (на инстанс) token bucket по IP для всех роутов,
// включая редиректы. Это не распределённый лимит записи, а защита
// конкретного процесса от всплеска с одного адреса.
type SurgeGuard struct {
	config   SurgeConfig
	visitors map[string]*visitor // IP -> visitor
	mu       sync.Mutex
}

// NewSurgeGuard создаёт новый surge guard
func NewSurgeGuard(config SurgeConfig) *SurgeGuard {
	sg := &SurgeGuard{
		config:   config,
		visitors: make(map[string]*visitor),
	}

	// Запускаем горутину для периодической очистки
	go sg.cleanupLoop()

	return sg
}

// cleanupLoop периодически удаляет неактивных посетителей
func (sg *SurgeGuard) cleanupLoop() {
	ticker := time.NewTicker(sg.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		sg.cleanup()
	}
}

// cleanup удаляет посетителей, которые не были активны долгое время
func (sg *SurgeGuard) cleanup() {
	sg.mu.Lock()
	defer sg.mu.Unlock()

	for ip, v := range sg.visitors {
		if time.Since(v.lastSeen) > sg.config.CleanupInterval*3 {
			delete(sg.visitors, ip)
		}
	}
}

// getLimiter возвращает или создаёт rate limiter для данного IP
func (sg *SurgeGuard) getLimiter(ip string) *rate.Limiter {
	sg.mu.Lock()
	defer sg.mu.Unlock()

	if v, exists := sg.visitors[ip]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	l := rate.NewLimiter(rate.Limit(sg.config.RequestsPerSecond), sg.config.BurstSize)
	sg.visitors[ip] = &visitor{
		limiter:  l,
		lastSeen: time.Now(),
	}

	return l
}

// Middleware возвращает Gin middleware handler
func (sg *SurgeGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !sg.getLimiter(ip).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Слишком много запросов, попробуйте позже",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
