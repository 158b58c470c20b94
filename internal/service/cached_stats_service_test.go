package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machflow/internal/domain"
	"machflow/internal/repository"
	"machflow/internal/store"
	"machflow/pkg/cache"
)

// fakeCache stands in for Redis; values live in a map, expirations are
// ignored so every read hits unless the key was invalidated.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = data
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) DeleteMultiple(ctx context.Context, keys []string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.data, key)
	}
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Publish(ctx context.Context, channel string, payload interface{}) error {
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error {
	return nil
}

type cachedStatsFixture struct {
	store        *store.MemoryStore
	cache        *fakeCache
	users        domain.UserRepository
	interactions domain.InteractionRepository
	cached       *CachedStatsService
	ingestion    domain.IngestionService
}

func newCachedStatsFixture(t *testing.T) *cachedStatsFixture {
	t.Helper()

	log := newTestLogger()
	st := store.NewMemoryStore(log)

	users := repository.NewUserRepository(st, log)
	require.NoError(t, users.Load())
	interactions := repository.NewInteractionRepository(st, log)
	require.NoError(t, interactions.Load())
	machines := repository.NewMachineRepository(st, log)
	pending := repository.NewPendingOrderRepository(st, log)

	fc := newFakeCache()
	cached := NewCachedStatsService(
		NewStatsService(users, interactions, machines, log),
		fc,
		cache.NewCacheManager(fc, log),
		log,
	)

	return &cachedStatsFixture{
		store:        st,
		cache:        fc,
		users:        users,
		interactions: interactions,
		cached:       cached,
		ingestion:    NewIngestionService(users, interactions, pending, cached, log),
	}
}

func TestCachedHistoryInvalidatedByIngestion(t *testing.T) {
	f := newCachedStatsFixture(t)

	require.NoError(t, f.users.Create(&domain.User{
		ID: 1, Name: "Abebe", Email: "abebe@example.com", Status: domain.UserStatusActive,
	}))
	require.NoError(t, f.interactions.Append(&domain.Interaction{UserID: 1, MachineName: "Drill", Cost: 50}))

	// İlk okuma geçmişi önbelleğe alır.
	history := f.cached.RentalHistory(1)
	require.Len(t, history, 1)

	queue := []domain.PendingOrder{
		{
			Customer: domain.Customer{Name: "Abebe", Email: "abebe@example.com"},
			Items: []domain.PendingOrderItem{
				{Machine: domain.MachineRef{Name: "Crane"}, IsRental: true, Duration: 2},
			},
			Total: 40,
		},
	}
	require.NoError(t, f.store.Set(store.KeyPendingOrders, queue))

	changed, err := f.ingestion.Ingest(context.Background())
	require.NoError(t, err)
	require.True(t, changed)

	history = f.cached.RentalHistory(1)
	require.Len(t, history, 2, "yeni etkileşim bayat önbelleğin arkasında kalmamalı")
	assert.Equal(t, "Crane", history[1].MachineName)
}

func TestCachedDashboardStatsInvalidate(t *testing.T) {
	f := newCachedStatsFixture(t)

	stats, err := f.cached.DashboardStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRevenue)

	require.NoError(t, f.interactions.Append(&domain.Interaction{UserID: 1, Cost: 75}))

	// Geçersizleştirme olmadan önbellek eski toplamı döndürür.
	stats, err = f.cached.DashboardStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRevenue)

	require.NoError(t, f.cached.Invalidate(context.Background()))

	stats, err = f.cached.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, float64(75), stats.TotalRevenue)
}

func TestCachedHistoryInvalidateSingleUser(t *testing.T) {
	f := newCachedStatsFixture(t)

	require.NoError(t, f.interactions.Append(&domain.Interaction{UserID: 1, MachineName: "Drill"}))
	require.NoError(t, f.interactions.Append(&domain.Interaction{UserID: 2, MachineName: "Crane"}))

	require.Len(t, f.cached.RentalHistory(1), 1)
	require.Len(t, f.cached.RentalHistory(2), 1)

	require.NoError(t, f.cached.InvalidateHistory(context.Background(), 1))

	f.cache.mu.Lock()
	_, user1Cached := f.cache.data[cache.RentalHistoryCacheKey(1)]
	_, user2Cached := f.cache.data[cache.RentalHistoryCacheKey(2)]
	f.cache.mu.Unlock()

	assert.False(t, user1Cached, "hedef kullanıcının geçmişi silinmeli")
	assert.True(t, user2Cached, "diğer kullanıcıların geçmişi kalmalı")
}
