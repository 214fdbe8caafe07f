package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/dkhalitov/linkcut/internal/cache"
	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(code string) *models.Link {
	return &models.Link{ShortCode: code, OriginalURL: "https://example.com/" + code}
}

func TestLRU_GetSet(t *testing.T) {
	c := cache.NewLRU(10, time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", link("a"))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ShortCode)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := cache.NewLRU(3, time.Minute)

	c.Set("a", link("a"))
	c.Set("b", link("b"))
	c.Set("c", link("c"))

	// Трогаем "a": теперь самый старый — "b"
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", link("d"))

	_, ok = c.Get("b")
	assert.False(t, ok, "b must have been evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, ok := c.Get(key)
		assert.True(t, ok, "%s must still be cached", key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestLRU_TTLExpiry(t *testing.T) {
	c := cache.NewLRU(10, 50*time.Millisecond)

	c.Set("a", link("a"))
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(70 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "entry older than TTL must be a miss")
}

func TestLRU_LastWriteWins(t *testing.T) {
	c := cache.NewLRU(10, time.Minute)

	c.Set("a", &models.Link{ShortCode: "a", OriginalURL: "https://example.com/v1"})
	c.Set("a", &models.Link{ShortCode: "a", OriginalURL: "https://example.com/v2"})

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/v2", got.OriginalURL)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_Delete(t *testing.T) {
	c := cache.NewLRU(10, time.Minute)

	c.Set("a", link("a"))
	c.Delete("a")
	c.Delete("never-existed")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_BoundedSize(t *testing.T) {
	c := cache.NewLRU(16, time.Minute)

	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("k%d", i), link("x"))
	}

	assert.Equal(t, 16, c.Len(), "cache must never grow past its capacity")
}
