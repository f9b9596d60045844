package service

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/ltc-mds-engine/internal/domain"
)

// DefaultCacheEntries is the cache size used when none is configured.
const DefaultCacheEntries = 1000

// CacheStats represents cache performance statistics
type CacheStats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	TriggerHits   int64 `json:"trigger_hits"`
	TriggerMisses int64 `json:"trigger_misses"`
	Errors        int64 `json:"errors"`
}

// HitRatio is the share of evaluation lookups answered from the cache.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CachedEvaluator memoizes an Evaluator by snapshot fingerprint, so a
// recalculation on an unchanged snapshot is free. Cached results are shared
// between callers and must be treated as read-only. Errors are never cached.
type CachedEvaluator struct {
	inner    domain.Evaluator
	results  *lru.Cache[string, *domain.Evaluation]
	triggers *lru.Cache[string, []domain.CareAreaTrigger]
	logger   *logrus.Logger

	statsMu sync.Mutex
	stats   CacheStats
}

// NewCachedEvaluator wraps inner with LRU caches of maxEntries each.
func NewCachedEvaluator(inner domain.Evaluator, maxEntries int, logger *logrus.Logger) (*CachedEvaluator, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	results, err := lru.New[string, *domain.Evaluation](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation cache: %w", err)
	}
	triggers, err := lru.New[string, []domain.CareAreaTrigger](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create trigger cache: %w", err)
	}
	return &CachedEvaluator{
		inner:    inner,
		results:  results,
		triggers: triggers,
		logger:   logger,
	}, nil
}

// Evaluate returns the cached evaluation for an identical snapshot and
// length of stay, or computes and caches it.
func (c *CachedEvaluator) Evaluate(a *domain.Assessment, opts domain.EvaluationOptions) (*domain.Evaluation, error) {
	if a == nil {
		return nil, ErrNilAssessment
	}
	key := a.Fingerprint() + "|" + opts.LengthOfStay.String()

	if cached, ok := c.results.Get(key); ok {
		c.record(func(s *CacheStats) { s.Hits++ })
		c.logger.WithField("assessment_id", a.ID).Debug("Evaluation cache hit")
		return cached, nil
	}
	c.record(func(s *CacheStats) { s.Misses++ })

	result, err := c.inner.Evaluate(a, opts)
	if err != nil {
		c.record(func(s *CacheStats) { s.Errors++ })
		return nil, err
	}
	c.results.Add(key, result)
	return result, nil
}

// EvaluateTriggers returns the cached trigger list for an identical snapshot.
func (c *CachedEvaluator) EvaluateTriggers(a *domain.Assessment) ([]domain.CareAreaTrigger, error) {
	if a == nil {
		return nil, ErrNilAssessment
	}
	key := a.Fingerprint()
	if cached, ok := c.triggers.Get(key); ok {
		c.record(func(s *CacheStats) { s.TriggerHits++ })
		return cached, nil
	}
	c.record(func(s *CacheStats) { s.TriggerMisses++ })

	result, err := c.inner.EvaluateTriggers(a)
	if err != nil {
		c.record(func(s *CacheStats) { s.Errors++ })
		return nil, err
	}
	c.triggers.Add(key, result)
	return result, nil
}

// Purge empties both caches.
func (c *CachedEvaluator) Purge() {
	c.results.Purge()
	c.triggers.Purge()
	c.logger.Info("Evaluation cache purged")
}

// Len is the number of cached evaluations.
func (c *CachedEvaluator) Len() int { return c.results.Len() }

// Stats returns cache performance statistics
func (c *CachedEvaluator) Stats() CacheStats {
	c.statsMu.Lock()
	stats := c.stats
	c.statsMu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"hit_ratio": fmt.Sprintf("%.2f%%", stats.HitRatio()*100),
		"errors":    stats.Errors,
	}).Debug("Cache statistics")

	return stats
}

func (c *CachedEvaluator) record(update func(*CacheStats)) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	update(&c.stats)
}

var _ domain.Evaluator = (*CachedEvaluator)(nil)
