package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called without a ttl
const DefaultTTL = 30 * time.Minute

// MemoryCache is a size-bounded in-process cache. When full it evicts the
// entries closest to expiry first.
type MemoryCache struct {
	mu       sync.Mutex
	items    map[string]*entry
	bytes    int64
	maxBytes int64
	stats    Stats
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type entry struct {
	value  []byte
	expiry time.Time
	size   int64
}

// NewMemoryCache creates a cache holding at most maxSizeMB megabytes (0 = unbounded)
// and starts a janitor that drops expired entries every sweep interval.
func NewMemoryCache(maxSizeMB int64, sweep time.Duration) *MemoryCache {
	if sweep <= 0 {
		sweep = time.Minute
	}
	mc := &MemoryCache{
		items:    make(map[string]*entry),
		maxBytes: maxSizeMB * 1024 * 1024,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.janitor(sweep)

	return mc
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e, ok := mc.items[key]
	if !ok || !mc.now().Before(e.expiry) {
		if ok {
			mc.removeLocked(key, e)
		}
		mc.stats.Misses++
		return nil, false
	}

	mc.stats.Hits++
	return e.value, true
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	size := int64(len(key) + len(value))

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if old, ok := mc.items[key]; ok {
		mc.removeLocked(key, old)
	}
	if mc.maxBytes > 0 && size > mc.maxBytes {
		// larger than the whole cache; never stored
		return nil
	}
	mc.makeRoomLocked(size)

	mc.items[key] = &entry{value: value, expiry: mc.now().Add(ttl), size: size}
	mc.bytes += size
	return nil
}

func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if e, ok := mc.items[key]; ok {
		mc.removeLocked(key, e)
	}
	return nil
}

// Stats returns a snapshot of the usage counters
func (mc *MemoryCache) Stats() Stats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stats := mc.stats
	stats.Entries = len(mc.items)
	stats.Bytes = mc.bytes
	stats.MaxBytes = mc.maxBytes
	return stats
}

// Stop ends the janitor goroutine. It is safe to call more than once.
func (mc *MemoryCache) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	mc.wg.Wait()
}

func (mc *MemoryCache) janitor(every time.Duration) {
	defer mc.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			mc.removeExpiredLocked()
			mc.mu.Unlock()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) removeLocked(key string, e *entry) {
	delete(mc.items, key)
	mc.bytes -= e.size
}

func (mc *MemoryCache) removeExpiredLocked() {
	now := mc.now()
	for key, e := range mc.items {
		if !now.Before(e.expiry) {
			mc.removeLocked(key, e)
			mc.stats.Evictions++
		}
	}
}

// makeRoomLocked frees space for size bytes, expired entries first
func (mc *MemoryCache) makeRoomLocked(size int64) {
	if mc.maxBytes <= 0 || mc.bytes+size <= mc.maxBytes {
		return
	}

	mc.removeExpiredLocked()

	for mc.bytes+size > mc.maxBytes && len(mc.items) > 0 {
		var oldestKey string
		var oldest *entry
		for key, e := range mc.items {
			if oldest == nil || e.expiry.Before(oldest.expiry) {
				oldestKey, oldest = key, e
			}
		}
		mc.removeLocked(oldestKey, oldest)
		mc.stats.Evictions++
	}
}
