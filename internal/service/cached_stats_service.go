package service

import (
	"context"

	"machflow/internal/domain"
	"machflow/pkg/cache"
	"machflow/pkg/logger"
)

// StatsInvalidator drops derived aggregates after a mutation. Services hold
// it as an optional hook; a nil invalidator means no cache layer is wired.
// InvalidateHistory additionally drops one user's cached rental history,
// called when ingestion appends an interaction for that user.
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
	InvalidateHistory(ctx context.Context, userID int64) error
}

// CachedStatsService decorates the stats service with read-through caching.
type CachedStatsService struct {
	inner        domain.StatsService
	cache        cache.Cache
	cacheManager cache.CacheStrategy
	logger       logger.Logger
}

func NewCachedStatsService(
	inner domain.StatsService,
	c cache.Cache,
	cacheManager cache.CacheStrategy,
	logger logger.Logger,
) *CachedStatsService {
	return &CachedStatsService{
		inner:        inner,
		cache:        c,
		cacheManager: cacheManager,
		logger:       logger,
	}
}

func (s *CachedStatsService) DashboardStats() (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := s.cacheManager.ReadThrough(
		context.Background(),
		cache.DashboardStatsKey,
		&stats,
		func() (interface{}, error) { return s.inner.DashboardStats() },
		cache.ShortExpiration,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *CachedStatsService) ChartData() (*domain.ChartData, error) {
	var data domain.ChartData
	err := s.cacheManager.ReadThrough(
		context.Background(),
		cache.ChartDataKey,
		&data,
		func() (interface{}, error) { return s.inner.ChartData() },
		cache.ShortExpiration,
	)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *CachedStatsService) MapMarkers() ([]domain.MapMarker, error) {
	var markers []domain.MapMarker
	err := s.cacheManager.ReadThrough(
		context.Background(),
		cache.MapMarkersKey,
		&markers,
		func() (interface{}, error) { return s.inner.MapMarkers() },
		cache.ShortExpiration,
	)
	if err != nil {
		return nil, err
	}
	return markers, nil
}

// RentalHistory has no error return, so a cache failure falls back to the
// inner service directly.
func (s *CachedStatsService) RentalHistory(userID int64) []*domain.Interaction {
	var history []*domain.Interaction
	err := s.cacheManager.ReadThrough(
		context.Background(),
		cache.RentalHistoryCacheKey(userID),
		&history,
		func() (interface{}, error) { return s.inner.RentalHistory(userID), nil },
		cache.MediumExpiration,
	)
	if err != nil {
		s.logger.Warn("Kiralama geçmişi önbellekten okunamadı", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return s.inner.RentalHistory(userID)
	}
	return history
}

func (s *CachedStatsService) Invalidate(ctx context.Context) error {
	return cache.InvalidateDashboardCache(ctx, s.cache)
}

func (s *CachedStatsService) InvalidateHistory(ctx context.Context, userID int64) error {
	return s.cache.Delete(ctx, cache.RentalHistoryCacheKey(userID))
}
