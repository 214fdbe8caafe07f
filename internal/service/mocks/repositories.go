package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/dkhalitov/linkcut/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing.
// The id sequence starts at 62^5 like the real one, so generated codes
// come out 6 characters long.
type MockLinkRepository struct {
	mu       sync.RWMutex
	links    map[string]*models.Link
	nextID   uint64
	GetCalls int // number of GetByShortCode calls, for cache-aside assertions
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links:  make(map[string]*models.Link),
		nextID: 916132832,
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.ShortCode]; exists {
		return repository.ErrCodeExists
	}

	link.ID = int64(len(m.links) + 1)
	stored := *link
	m.links[link.ShortCode] = &stored
	return nil
}

func (m *MockLinkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	link, exists := m.links[code]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) NextID(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *MockLinkRepository) IncrementClicks(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[code]
	if !exists {
		return repository.ErrLinkNotFound
	}
	link.Clicks++
	return nil
}

func (m *MockLinkRepository) GetLinkIDByShortCode(ctx context.Context, code string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists {
		return 0, repository.ErrLinkNotFound
	}
	return link.ID, nil
}

// Clicks returns the current click counter for code.
func (m *MockLinkRepository) Clicks(code string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if link, ok := m.links[code]; ok {
		return link.Clicks
	}
	return 0
}

type cacheEntry struct {
	link      *models.Link
	expiresAt time.Time
}

// MockCacheRepository implements repository.CacheRepository for testing.
// Set FailOps to simulate a broken distributed tier.
type MockCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	FailOps bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		entries: make(map[string]cacheEntry),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailOps {
		return nil, errors.New("cache backend down")
	}

	entry, exists := m.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, repository.ErrCacheMiss
	}
	copied := *entry.link
	return &copied, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, link *models.Link, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOps {
		return errors.New("cache backend down")
	}

	stored := *link
	m.entries[key] = cacheEntry{link: &stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOps {
		return errors.New("cache backend down")
	}

	delete(m.entries, key)
	return nil
}

// Contains reports whether the key is currently cached.
func (m *MockCacheRepository) Contains(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[key]
	return exists && time.Now().Before(entry.expiresAt)
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.Mutex
	clicks []*models.Click
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{}
}

func (m *MockClickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks = append(m.clicks, click)
	return nil
}

func (m *MockClickRepository) RecordClickWithRetry(ctx context.Context, click *models.Click, maxRetries int) error {
	return m.RecordClick(ctx, click)
}

// Recorded returns a snapshot of recorded clicks.
func (m *MockClickRepository) Recorded() []*models.Click {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Click, len(m.clicks))
	copy(out, m.clicks)
	return out
}

// NopClickSink drops every click event. Implements service.ClickSink.
type NopClickSink struct{}

func (NopClickSink) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	return nil
}
