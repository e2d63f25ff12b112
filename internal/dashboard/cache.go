package dashboard

import (
	"container/list"
	"sync"

	"github.com/aevon-lab/rainfall-explorer/internal/core/climatology"
	"github.com/google/uuid"
)

// profileKey scopes a cached profile to one dataset snapshot.
type profileKey struct {
	version      uuid.UUID
	focalYear    int
	excludeFocal bool
}

type profileEntry struct {
	key     profileKey
	profile *climatology.Profile
}

// ProfileCache is a thread-safe LRU of climatology profiles. Profiles are
// never mutated after Compute, so entries are shared, not copied.
// A zero capacity disables caching.
type ProfileCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[profileKey]*list.Element
	order    *list.List
}

func NewProfileCache(capacity int) *ProfileCache {
	return &ProfileCache{
		capacity: capacity,
		entries:  make(map[profileKey]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached profile or nil.
func (c *ProfileCache) Get(key profileKey) *climatology.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*profileEntry).profile
}

// Put stores a profile, evicting the least recently used entry when full.
func (c *ProfileCache) Put(key profileKey, profile *climatology.Profile) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*profileEntry).profile = profile
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*profileEntry).key)
			c.order.Remove(oldest)
		}
	}
	c.entries[key] = c.order.PushFront(&profileEntry{key: key, profile: profile})
}

// Len reports the number of cached profiles.
func (c *ProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
