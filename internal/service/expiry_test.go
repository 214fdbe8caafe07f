package service_test

import (
	"testing"
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/dkhalitov/linkcut/internal/service"
	"github.com/stretchr/testify/assert"
)

// TestIsLive_NoExpiry проверяет, что ссылка без expires_at живёт вечно
func TestIsLive_NoExpiry(t *testing.T) {
	link := &models.Link{ShortCode: "abc"}

	assert.True(t, service.IsLive(link, time.Now()))
	assert.True(t, service.IsLive(link, time.Now().Add(100*365*24*time.Hour)))
}

// TestIsLive_Boundaries проверяет границы окна жизни
func TestIsLive_Boundaries(t *testing.T) {
	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	link := &models.Link{ShortCode: "abc", ExpiresAt: &expires}

	assert.True(t, service.IsLive(link, expires.Add(-time.Nanosecond)))
	// Ровно в момент истечения ссылка уже мертва
	assert.False(t, service.IsLive(link, expires))
	assert.False(t, service.IsLive(link, expires.Add(time.Nanosecond)))
}

// TestIsLive_MonotonicInTime проверяет монотонность: однажды умерев,
// запись не оживает
func TestIsLive_MonotonicInTime(t *testing.T) {
	expires := time.Now()
	link := &models.Link{ShortCode: "abc", ExpiresAt: &expires}

	dead := false
	for i := -10; i <= 10; i++ {
		now := expires.Add(time.Duration(i) * time.Second)
		live := service.IsLive(link, now)
		if dead {
			assert.False(t, live, "record came back to life at offset %d", i)
		}
		if !live {
			dead = true
		}
	}
	assert.True(t, dead)
}
