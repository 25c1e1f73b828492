package storage

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

type cacheItem struct {
	key       string
	value     interface{}
	timestamp time.Time
	element   *list.Element
}

// MemoryCache implements an LRU cache with optional TTL
type MemoryCache struct {
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	items   map[string]*cacheItem
	lruList *list.List

	hits   atomic.Uint64
	misses atomic.Uint64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a cache without expiry
func NewMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCacheWithTTL(maxSize, 0)
}

// NewMemoryCacheWithTTL creates a cache whose entries expire after ttl.
// A background sweep runs every ttl/2 until Close is called.
func NewMemoryCacheWithTTL(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	cache := &MemoryCache{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*cacheItem),
		lruList: list.New(),
		stop:    make(chan struct{}),
	}

	if ttl > 0 {
		go cache.cleanupRoutine()
	}

	return cache
}

// Set adds or updates an item in the cache
func (mc *MemoryCache) Set(key string, value interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()

	if item, exists := mc.items[key]; exists {
		item.value = value
		item.timestamp = now
		mc.lruList.MoveToFront(item.element)
		return nil
	}

	item := &cacheItem{
		key:       key,
		value:     value,
		timestamp: now,
	}
	item.element = mc.lruList.PushFront(item)
	mc.items[key] = item

	if len(mc.items) > mc.maxSize {
		mc.evictOldest()
	}

	return nil
}

// Get retrieves an item and marks it recently used
func (mc *MemoryCache) Get(key string) (interface{}, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		mc.misses.Add(1)
		return nil, false
	}

	if mc.expired(item, mc.now()) {
		mc.deleteItem(item)
		mc.misses.Add(1)
		return nil, false
	}

	mc.lruList.MoveToFront(item.element)
	mc.hits.Add(1)
	return item.value, true
}

func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if item, exists := mc.items[key]; exists {
		mc.deleteItem(item)
	}
	return nil
}

func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*cacheItem)
	mc.lruList = list.New()
	return nil
}

func (mc *MemoryCache) Size() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.items)
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() CacheStats {
	mc.mu.Lock()
	size := len(mc.items)
	mc.mu.Unlock()

	return CacheStats{
		Size:    size,
		MaxSize: mc.maxSize,
		TTL:     mc.ttl,
		Hits:    mc.hits.Load(),
		Misses:  mc.misses.Load(),
	}
}

// Close stops the expiry sweep. Safe to call more than once.
func (mc *MemoryCache) Close() {
	mc.stopOnce.Do(func() { close(mc.stop) })
}

func (mc *MemoryCache) expired(item *cacheItem, now time.Time) bool {
	return mc.ttl > 0 && now.Sub(item.timestamp) > mc.ttl
}

func (mc *MemoryCache) evictOldest() {
	if element := mc.lruList.Back(); element != nil {
		mc.deleteItem(element.Value.(*cacheItem))
	}
}

func (mc *MemoryCache) deleteItem(item *cacheItem) {
	delete(mc.items, item.key)
	mc.lruList.Remove(item.element)
}

func (mc *MemoryCache) cleanupRoutine() {
	ticker := time.NewTicker(mc.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			mc.cleanupExpired()
		}
	}
}

func (mc *MemoryCache) cleanupExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	for _, item := range mc.items {
		if mc.expired(item, now) {
			mc.deleteItem(item)
		}
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	TTL     time.Duration `json:"ttl"`
	Hits    uint64        `json:"hits"`
	Misses  uint64        `json:"misses"`
}
