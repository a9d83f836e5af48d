package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/models"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
)

const (
	catalogCachePrefix  = "catalog:sections:"
	catalogCachePattern = catalogCachePrefix + "*"
)

// SectionsCacheKey returns the cache key for one course's section list.
func SectionsCacheKey(departmentID, courseNumber string) string {
	return fmt.Sprintf("%s%s:%s", catalogCachePrefix, strings.ToUpper(departmentID), strings.ToUpper(courseNumber))
}

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SectionCache keeps per-course section lists in front of the catalog tables.
// Cache failures degrade to a miss; the database stays the source of truth.
type SectionCache struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewSectionCache constructs a section cache. A nil repo disables caching.
func NewSectionCache(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *SectionCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionCache{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *SectionCache) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Sections returns the cached rows of a course and whether they were found.
func (s *SectionCache) Sections(ctx context.Context, departmentID, courseNumber string) ([]models.CourseSection, bool) {
	if !s.Enabled() {
		return nil, false
	}
	key := SectionsCacheKey(departmentID, courseNumber)
	start := time.Now()
	var rows []models.CourseSection
	err := s.repo.Get(ctx, key, &rows)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("section cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return rows, true
}

// StoreSections caches a course's rows. Empty lists are not cached.
func (s *SectionCache) StoreSections(ctx context.Context, departmentID, courseNumber string, rows []models.CourseSection) {
	if !s.Enabled() || len(rows) == 0 {
		return
	}
	key := SectionsCacheKey(departmentID, courseNumber)
	start := time.Now()
	err := s.repo.Set(ctx, key, rows, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("section cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateCatalog drops every cached section list.
func (s *SectionCache) InvalidateCatalog(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, catalogCachePattern); err != nil {
		s.logger.Warn("section cache invalidate failed", zap.String("pattern", catalogCachePattern), zap.Error(err))
		return err
	}
	return nil
}
