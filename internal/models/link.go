package models

import (
	"time"
)

type Link struct {
	ID          int64      `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	OwnerID     *string    `json:"owner_id,omitempty"`
	Clicks      int64      `json:"clicks"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateLinkInput struct {
	OriginalURL string
	ExpiresIn   *int
	CustomCode  *string
	OwnerID     *string
}

type LinkStats struct {
	ShortCode string `json:"short_code"`
	Clicks    int64  `json:"clicks"`
}
