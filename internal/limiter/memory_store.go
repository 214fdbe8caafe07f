package limiter

import (
	"context"
	"sync"
	"time"
)

// MemoryCounterStore — счётчики в памяти процесса. Годится для тестов и
// одиночного инстанса; при горизонтальном масштабировании лимит держит
// только RedisCounterStore.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*memCounter
}

type memCounter struct {
	value     int64
	expiresAt time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*memCounter),
	}
}

func (s *MemoryCounterStore) Incr(ctx context.Context, key string, limit int64, window time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Попутная уборка истёкших окон, чтобы карта не росла бесконечно
	for k, c := range s.counters {
		if now.After(c.expiresAt) {
			delete(s.counters, k)
		}
	}

	c, ok := s.counters[key]
	if !ok {
		c = &memCounter{expiresAt: now.Add(window)}
		s.counters[key] = c
	}

	if c.value >= limit {
		return limit + 1, nil
	}
	c.value++
	return c.value, nil
}
