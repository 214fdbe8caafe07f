package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
)

// LRU is the process-local cache tier: a bounded map + doubly linked list
// with least-recently-used eviction and a per-entry TTL. Private to the
// process, no cross-process coordination.
type LRU struct {
	capacity int
	ttl      time.Duration
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

type lruEntry struct {
	key      string
	link     *models.Link
	storedAt time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached link, refreshing its recency. Entries older than
// the TTL are dropped and reported as a miss.
func (c *LRU) Get(key string) (*models.Link, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*lruEntry)
	if time.Since(entry.storedAt) >= c.ttl {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry.link, true
}

// Set inserts or replaces the entry. Last write wins. When the cache is
// full, the least recently used entry is evicted.
func (c *LRU) Set(key string, link *models.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*lruEntry)
		entry.link = link
		entry.storedAt = time.Now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}

	c.items[key] = c.order.PushFront(&lruEntry{
		key:      key,
		link:     link,
		storedAt: time.Now(),
	})
}

func (c *LRU) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
