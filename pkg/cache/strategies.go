package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"machflow/pkg/logger"
)

// Cache key constants
const (
	// Dashboard aggregate keys
	DashboardStatsKey = "dashboard:stats"
	ChartDataKey      = "dashboard:charts"
	MapMarkersKey     = "dashboard:markers"

	// Per-user keys
	RentalHistoryKey = "history:user:%d"

	// RefreshChannel carries refresh events for the order-entry process.
	RefreshChannel = "machflow:refresh"
)

// Cache expiration times
const (
	ShortExpiration  = 5 * time.Minute  // Frequently changing data
	MediumExpiration = 30 * time.Minute // Moderately changing data
	LongExpiration   = 2 * time.Hour    // Rarely changing data
)

// CacheStrategy defines different caching patterns
type CacheStrategy interface {
	// Read-through: Check cache first, if miss then fetch from source and cache it
	ReadThrough(ctx context.Context, key string, dest interface{}, fetchFunc func() (interface{}, error), expiration time.Duration) error

	// Write-through: Write to source first, then mirror into cache
	WriteThrough(ctx context.Context, key string, value interface{}, writeFunc func(value interface{}) error, expiration time.Duration) error
}

// CacheManager implements the caching strategies
type CacheManager struct {
	cache  Cache
	logger logger.Logger
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cache Cache, logger logger.Logger) CacheStrategy {
	return &CacheManager{
		cache:  cache,
		logger: logger,
	}
}

// ReadThrough implements read-through caching pattern
func (cm *CacheManager) ReadThrough(ctx context.Context, key string, dest interface{}, fetchFunc func() (interface{}, error), expiration time.Duration) error {
	err := cm.cache.Get(ctx, key, dest)
	if err == nil {
		cm.logger.Debug("Cache hit for read-through", map[string]interface{}{"key": key})
		return nil
	}

	if err != ErrCacheMiss {
		cm.logger.Error("Cache error in read-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		// Continue to fetch from source despite cache error
	}

	data, err := fetchFunc()
	if err != nil {
		cm.logger.Error("Source fetch error in read-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return err
	}

	if err := cm.cache.Set(ctx, key, data, expiration); err != nil {
		cm.logger.Error("Cache set error in read-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		// Don't fail the request if cache set fails
	}

	return copyData(data, dest)
}

// WriteThrough implements write-through caching pattern
func (cm *CacheManager) WriteThrough(ctx context.Context, key string, value interface{}, writeFunc func(value interface{}) error, expiration time.Duration) error {
	if err := writeFunc(value); err != nil {
		cm.logger.Error("Source write error in write-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return err
	}

	if err := cm.cache.Set(ctx, key, value, expiration); err != nil {
		cm.logger.Error("Cache set error in write-through", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		// Don't fail the request if cache set fails, source is already updated
	}

	cm.logger.Debug("Write-through completed", map[string]interface{}{"key": key})
	return nil
}

// Helper functions for cache key generation
func RentalHistoryCacheKey(userID int64) string {
	return fmt.Sprintf(RentalHistoryKey, userID)
}

// InvalidateDashboardCache drops every derived dashboard aggregate; called
// after any mutation that changes what the views show.
func InvalidateDashboardCache(ctx context.Context, cache Cache) error {
	keys := []string{
		DashboardStatsKey,
		ChartDataKey,
		MapMarkersKey,
	}
	return cache.DeleteMultiple(ctx, keys)
}

// Helper function to copy data between interfaces
func copyData(src, dest interface{}) error {
	switch d := dest.(type) {
	case *interface{}:
		*d = src
		return nil
	default:
		data, err := json.Marshal(src)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, dest)
	}
}
