package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
)

type ClickRepository interface {
	RecordClick(ctx context.Context, click *models.Click) error
	RecordClickWithRetry(ctx context.Context, click *models.Click, maxRetries int) error
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO clicks (link_id, ip_address, user_agent, referer, clicked_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		click.LinkID,
		click.IPAddress,
		click.UserAgent,
		click.Referer,
		click.ClickedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

// RecordClickWithRetry records a click with retry logic
func (r *clickRepository) RecordClickWithRetry(ctx context.Context, click *models.Click, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := r.RecordClick(ctx, click); err == nil {
			return nil
		} else {
			lastErr = err
		}
		// Linear backoff
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
