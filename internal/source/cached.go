package source

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

// CachedSource serves snapshots from a SnapshotCache and falls through to
// the wrapped Source on a miss. Concurrent misses share one fetch.
type CachedSource struct {
	source Source
	cache  SnapshotCache
	ttl    time.Duration
	prefix string
	logger *zap.Logger
	group  singleflight.Group
	// generation advances on Invalidate; fetches begun under an older
	// generation do not write back to the cache.
	generation atomic.Uint64
}

// NewCachedSource wraps source. A zero ttl disables caching.
func NewCachedSource(source Source, cache SnapshotCache, ttl time.Duration, prefix string, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{source: source, cache: cache, ttl: ttl, prefix: prefix, logger: logger}
}

// ExamRecords returns the cached "Dados" snapshot.
func (s *CachedSource) ExamRecords(ctx context.Context) ([]domain.ExamRecord, error) {
	return fetchCached(ctx, s, s.key(SetExamRecords), s.source.ExamRecords)
}

// RoleRequirements returns the cached "FuncaoExames" snapshot.
func (s *CachedSource) RoleRequirements(ctx context.Context) ([]domain.RoleExamRequirement, error) {
	return fetchCached(ctx, s, s.key(SetRoleRequirements), s.source.RoleRequirements)
}

// Invalidate drops both cached snapshots so the next read refetches.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	keys := []string{s.key(SetExamRecords), s.key(SetRoleRequirements)}
	for _, key := range keys {
		s.group.Forget(key)
	}
	s.generation.Add(1)
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, keys...)
}

func (s *CachedSource) key(set string) string {
	if s.prefix == "" {
		return set
	}
	return s.prefix + ":" + set
}

func (s *CachedSource) caching() bool {
	return s.cache != nil && s.ttl > 0
}

func fetchCached[T any](ctx context.Context, s *CachedSource, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if s.caching() {
		data, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
		case ok:
			var cached []T
			if err := decode(data, &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("discarding undecodable snapshot", zap.String("key", key))
		}
	}

	gen := s.generation.Load()
	val, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiter on key, so one caller's cancellation must not fail the rest.
		return fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	items := val.([]T)

	if s.caching() && len(items) > 0 && gen == s.generation.Load() {
		data, err := encode(items)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.ttl)
		}
		if err != nil {
			s.logger.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	s.logger.Debug("snapshot fetched", zap.String("key", key), zap.Int("rows", len(items)))
	return items, nil
}
