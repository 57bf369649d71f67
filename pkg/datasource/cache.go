package datasource

import (
	"sync"
	"time"

	"github.com/opscart/stack-advisor/pkg/models"
)

// ResourceCache caches host totals to reduce Prometheus queries
type ResourceCache struct {
	data  map[string]*cacheEntry
	ttl   time.Duration
	mutex sync.RWMutex
	now   func() time.Time
}

type cacheEntry struct {
	resources *models.HostResources
	expiresAt time.Time
}

func NewResourceCache(ttl time.Duration) *ResourceCache {
	return &ResourceCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the cached totals of host, or nil when absent or expired
func (c *ResourceCache) Get(host string) *models.HostResources {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[host]
	if !exists || c.now().After(entry.expiresAt) {
		return nil
	}
	return entry.resources
}

func (c *ResourceCache) Set(host string, resources *models.HostResources) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	// drop expired entries while holding the write lock
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, k)
		}
	}
	c.data[host] = &cacheEntry{
		resources: resources,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *ResourceCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]*cacheEntry)
}

// Len returns the number of entries, expired ones included
func (c *ResourceCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
