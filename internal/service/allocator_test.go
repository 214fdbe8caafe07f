package service_test

import (
	"context"
	"testing"

	"github.com/dkhalitov/linkcut/internal/service"
	"github.com/dkhalitov/linkcut/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllocator_Allocate проверяет, что коды уникальны и декодируются
// обратно в выданный идентификатор
func TestAllocator_Allocate(t *testing.T) {
	linkRepo := mocks.NewMockLinkRepository()
	allocator := service.NewAllocator(linkRepo)
	ctx := context.Background()

	seen := make(map[string]bool)
	var prevID uint64
	for i := 0; i < 100; i++ {
		code, err := allocator.Allocate(ctx)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true

		// Round-trip: код декодируется в строго возрастающий id
		id, err := allocator.DecodeCode(code)
		require.NoError(t, err)
		assert.Greater(t, id, prevID)
		prevID = id
	}
}

// TestValidateCustomCode проверяет формат кастомных кодов
func TestValidateCustomCode(t *testing.T) {
	valid := []string{"promo", "abc", "my-custom", "snake_case", "A1b2C3", "xyz123"}
	for _, code := range valid {
		assert.NoError(t, service.ValidateCustomCode(code), "code %q", code)
	}

	invalid := []string{"", "ab", "has space", "страница", "semi;colon", "dot.dot"}
	for _, code := range invalid {
		assert.ErrorIs(t, service.ValidateCustomCode(code), service.ErrInvalidCode, "code %q", code)
	}
}
