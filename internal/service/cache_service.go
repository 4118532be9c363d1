package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/pkg/cache"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetCounter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics.
//
// Entries of a calendar live under a generation number. Writers bump the
// generation after committing, so a result computed from pre-write data can
// only ever land under a generation nobody reads anymore.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// CalendarKey returns the key for parts under the calendar's current
// generation. ok is false when caching is off or the generation is unknown.
func (s *CacheService) CalendarKey(ctx context.Context, calendarID string, parts ...string) (key string, ok bool) {
	if !s.Enabled() {
		return "", false
	}
	gen, err := s.repo.GetCounter(ctx, generationKey(calendarID))
	if err != nil {
		s.logger.Warn("cache generation lookup failed", zap.String("calendar_id", calendarID), zap.Error(err))
		return "", false
	}
	segments := append([]string{fmt.Sprintf("v%d", gen)}, parts...)
	return cache.CalendarKey(calendarID, segments...), true
}

// InvalidateCalendar moves the calendar to a new generation and evicts the
// entries of the previous one.
func (s *CacheService) InvalidateCalendar(ctx context.Context, calendarID string) error {
	if !s.Enabled() {
		return nil
	}
	gen, err := s.repo.Incr(ctx, generationKey(calendarID))
	if err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("calendar_id", calendarID), zap.Error(err))
		return err
	}
	pattern := cache.CalendarPattern(calendarID, fmt.Sprintf("v%d", gen-1))
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache eviction failed", zap.String("pattern", pattern), zap.Error(err))
	}
	return nil
}

func generationKey(calendarID string) string {
	return cache.CalendarKey(calendarID, "gen")
}

// loadCached returns the cached value for parts or computes and stores it.
// Cache failures never surface; the computed value is returned regardless.
func loadCached[T any](ctx context.Context, c *CacheService, calendarID string, parts []string, compute func() (T, error)) (T, error) {
	key, ok := c.CalendarKey(ctx, calendarID, parts...)
	if ok {
		var cached T
		if hit, _ := c.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}
	value, err := compute()
	if err != nil {
		return value, err
	}
	if ok {
		_ = c.Set(ctx, key, value, 0)
	}
	return value, nil
}
