// -----------------------------------------------------------------------
// Index Cache - Bounded in-memory pool of tenant indexes with LRU eviction
// -----------------------------------------------------------------------

package index

import (
	"container/list"
	"context"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// DefaultCacheSize bounds resident memory to a handful of tenant indexes.
const DefaultCacheSize = 5

// Cache holds up to capacity tenant indexes in memory, evicting the least
// recently used when full. Eviction drops only the in-memory copy; the
// on-disk index stays authoritative.
//
// The mutex covers map and recency-list updates only. Store loads run
// outside it, deduplicated per tenant so concurrent misses for the same
// tenant trigger one disk read, and a slow load never blocks cache hits for
// other tenants.
type Cache struct {
	store    interfaces.IndexStore
	capacity int
	logger   arbor.ILogger

	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
	inflight map[string]*loadCall
	gens     map[string]uint64 // bumped by Invalidate to discard stale loads
}

type cacheEntry struct {
	tenantID string
	idx      *models.TenantIndex
}

type loadCall struct {
	done chan struct{}
	idx  *models.TenantIndex
	err  error
}

var _ interfaces.IndexCache = (*Cache)(nil)

// NewCache creates a cache over the given store. A non-positive capacity
// falls back to DefaultCacheSize.
func NewCache(store interfaces.IndexStore, capacity int, logger arbor.ILogger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		store:    store,
		capacity: capacity,
		logger:   logger,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		inflight: make(map[string]*loadCall),
		gens:     make(map[string]uint64),
	}
}

// Get returns the tenant's index, loading from the store on miss. The
// returned index is shared and must be treated as read-only.
func (c *Cache) Get(ctx context.Context, tenantID string) (*models.TenantIndex, error) {
	c.mu.Lock()

	if elem, ok := c.entries[tenantID]; ok {
		c.order.MoveToFront(elem)
		idx := elem.Value.(*cacheEntry).idx
		c.mu.Unlock()
		return idx, nil
	}

	if call, ok := c.inflight[tenantID]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.idx, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// This goroutine leads the load for this tenant
	call := &loadCall{done: make(chan struct{})}
	c.inflight[tenantID] = call
	gen := c.gens[tenantID]
	c.mu.Unlock()

	// Disk read happens with no lock held
	idx, err := c.store.Load(tenantID)

	c.mu.Lock()
	delete(c.inflight, tenantID)
	if err == nil && c.gens[tenantID] == gen {
		c.insert(tenantID, idx)
	}
	c.mu.Unlock()

	call.idx = idx
	call.err = err
	close(call.done)

	return idx, err
}

// Invalidate removes the tenant's entry so the next Get reloads the fresh
// on-disk version. Loads already in flight for the tenant are discarded on
// completion rather than cached.
func (c *Cache) Invalidate(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[tenantID]++
	if elem, ok := c.entries[tenantID]; ok {
		c.order.Remove(elem)
		delete(c.entries, tenantID)
		c.logger.Debug().
			Str("tenant_id", tenantID).
			Msg("Invalidated cached index")
	}
}

// Len reports the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// insert adds an entry at the front, evicting from the back past capacity.
// Caller holds the mutex.
func (c *Cache) insert(tenantID string, idx *models.TenantIndex) {
	if elem, ok := c.entries[tenantID]; ok {
		elem.Value.(*cacheEntry).idx = idx
		c.order.MoveToFront(elem)
		return
	}

	c.entries[tenantID] = c.order.PushFront(&cacheEntry{tenantID: tenantID, idx: idx})

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		evicted := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.tenantID)
		c.logger.Debug().
			Str("tenant_id", evicted.tenantID).
			Int("capacity", c.capacity).
			Msg("Evicted least recently used index")
	}
}
