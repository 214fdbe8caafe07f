// Package cache реализует двухуровневый кэш коротких ссылок:
// локальный LRU в памяти процесса перед общим Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/dkhalitov/linkcut/internal/repository"
	"go.uber.org/zap"
)

// TwoTier queries the local tier, then the distributed one. It never talks
// to the durable store: a full miss is handed back to the caller
// (cache-aside). Tier failures are logged and degrade to a miss — the cache
// is an accelerator, never a source of truth.
type TwoTier struct {
	local     *LRU
	remote    repository.CacheRepository
	remoteTTL time.Duration
	logger    *zap.Logger
}

func NewTwoTier(local *LRU, remote repository.CacheRepository, remoteTTL time.Duration, logger *zap.Logger) *TwoTier {
	return &TwoTier{
		local:     local,
		remote:    remote,
		remoteTTL: remoteTTL,
		logger:    logger,
	}
}

// Get возвращает запись из первого уровня, на котором она нашлась.
// Попадание в Redis прогревает локальный уровень.
func (c *TwoTier) Get(ctx context.Context, code string) (*models.Link, bool) {
	if link, ok := c.local.Get(code); ok {
		return link, true
	}

	link, err := c.remote.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			c.logger.Warn("distributed cache get failed, degrading to store",
				zap.String("code", code),
				zap.Error(err),
			)
		}
		return nil, false
	}

	c.local.Set(code, link)
	return link, true
}

// Set наполняет оба уровня (write-through после успешной записи в хранилище).
func (c *TwoTier) Set(ctx context.Context, link *models.Link) {
	c.local.Set(link.ShortCode, link)

	// TTL в Redis ограничивает устаревание записи, а не её жизнь:
	// логическое истечение всегда перепроверяется по часам при чтении.
	ttl := c.remoteTTL
	if link.ExpiresAt != nil {
		if until := time.Until(*link.ExpiresAt); until < ttl {
			ttl = until
		}
	}
	if ttl <= 0 {
		return
	}

	if err := c.remote.Set(ctx, link.ShortCode, link, ttl); err != nil {
		c.logger.Warn("distributed cache set failed",
			zap.String("code", link.ShortCode),
			zap.Error(err),
		)
	}
}

// Invalidate удаляет код из обоих уровней.
func (c *TwoTier) Invalidate(ctx context.Context, code string) {
	c.local.Delete(code)

	if err := c.remote.Delete(ctx, code); err != nil {
		c.logger.Warn("distributed cache delete failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}
}
