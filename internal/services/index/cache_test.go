package index

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/models"
)

// countingStore wraps a FileStore and counts Load calls per tenant.
type countingStore struct {
	*FileStore
	loads sync.Map // tenantID -> *int64
}

func (s *countingStore) Load(tenantID string) (*models.TenantIndex, error) {
	counter, _ := s.loads.LoadOrStore(tenantID, new(int64))
	atomic.AddInt64(counter.(*int64), 1)
	return s.FileStore.Load(tenantID)
}

func (s *countingStore) loadCount(tenantID string) int64 {
	counter, ok := s.loads.Load(tenantID)
	if !ok {
		return 0
	}
	return atomic.LoadInt64(counter.(*int64))
}

func newCountingStore(t *testing.T) *countingStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir(), arbor.NewLogger())
	require.NoError(t, err)
	return &countingStore{FileStore: fs}
}

func TestCacheMissLoadsThenHits(t *testing.T) {
	store := newCountingStore(t)
	require.NoError(t, store.Persist("A", testIndex("A", 3)))

	cache := NewCache(store, 5, arbor.NewLogger())
	ctx := context.Background()

	idx, err := cache.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	_, err = cache.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.loadCount("A"), "second Get should be a cache hit")
	assert.Equal(t, 1, cache.Len())
}

func TestCacheMissingTenant(t *testing.T) {
	store := newCountingStore(t)
	cache := NewCache(store, 5, arbor.NewLogger())

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrTenantNotFound)
	assert.Equal(t, 0, cache.Len(), "failed loads must not occupy cache slots")
}

func TestCacheLRUEviction(t *testing.T) {
	store := newCountingStore(t)
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, store.Persist(id, testIndex(id, 1)))
	}

	cache := NewCache(store, 2, arbor.NewLogger())
	ctx := context.Background()

	// Fill to capacity
	_, err := cache.Get(ctx, "A")
	require.NoError(t, err)
	_, err = cache.Get(ctx, "B")
	require.NoError(t, err)

	// Touch A so B becomes least recently used
	_, err = cache.Get(ctx, "A")
	require.NoError(t, err)

	// C evicts B
	_, err = cache.Get(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	// A is still resident, B reloads from disk
	_, err = cache.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.loadCount("A"))

	_, err = cache.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(2), store.loadCount("B"), "evicted tenant should reload from the store")
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	store := newCountingStore(t)
	require.NoError(t, store.Persist("A", testIndex("A", 2)))

	cache := NewCache(store, 5, arbor.NewLogger())
	ctx := context.Background()

	idx, err := cache.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	// Rebuild on disk, then invalidate
	require.NoError(t, store.Persist("A", testIndex("A", 9)))
	cache.Invalidate("A")
	assert.Equal(t, 0, cache.Len())

	idx, err = cache.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 9, idx.Len(), "Get after Invalidate must see the rebuilt index")
	assert.Equal(t, int64(2), store.loadCount("A"))
}

func TestCacheConcurrentMissesLoadOnce(t *testing.T) {
	store := newCountingStore(t)
	require.NoError(t, store.Persist("A", testIndex("A", 1)))

	cache := NewCache(store, 5, arbor.NewLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, err := cache.Get(ctx, "A")
			assert.NoError(t, err)
			assert.NotNil(t, idx)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), store.loadCount("A"), "concurrent misses should share one disk load")
}

func TestCacheDefaultCapacity(t *testing.T) {
	store := newCountingStore(t)
	cache := NewCache(store, 0, arbor.NewLogger())
	assert.Equal(t, DefaultCacheSize, cache.capacity)
}
