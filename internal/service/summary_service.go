package service

import (
	"context"
	"encoding/json"
	"time"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/repository"
	"goatmeter-be/pkg/redis"

	"go.uber.org/zap"
)

// SummaryService serves the aggregate read surface: the global summary
// document, per-warzone rollups and the recent-votes ticker. Reads go
// through Redis with short TTLs because dashboards poll these endpoints
// aggressively; a brief staleness window is tolerated by design.
type SummaryService struct {
	store  repository.Store
	redis  *redis.Client
	logger *zap.Logger
}

// NewSummaryService creates a new summary service.
func NewSummaryService(store repository.Store, redisClient *redis.Client, logger *zap.Logger) *SummaryService {
	return &SummaryService{store: store, redis: redisClient, logger: logger}
}

// GetGlobalSummary returns the global summary, zero-state if no vote was
// ever cast.
func (s *SummaryService) GetGlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyGlobalSummary()); err == nil && cached != "" {
			var summary domain.GlobalSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.store.GetGlobalSummary(ctx)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = domain.NewGlobalSummary()
	}

	if s.redis != nil {
		s.cacheJSON(ctx, s.redis.KeyBuilder.KeyGlobalSummary(), summary, redis.TTLSummary)
	}
	return summary, nil
}

// GetWarzoneStats returns one warzone's rollup, zero-state if nobody in
// that warzone has voted yet.
func (s *SummaryService) GetWarzoneStats(ctx context.Context, warzoneID string) (*domain.WarzoneStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyWarzoneStats(warzoneID)); err == nil && cached != "" {
			var stats domain.WarzoneStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.store.GetWarzoneStats(ctx, warzoneID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		counts := make(map[domain.Stance]int, len(domain.Stances))
		for _, st := range domain.Stances {
			counts[st] = 0
		}
		stats = &domain.WarzoneStats{WarzoneID: warzoneID, StanceCounts: counts}
	}

	if s.redis != nil {
		s.cacheJSON(ctx, s.redis.KeyBuilder.KeyWarzoneStats(warzoneID), stats, redis.TTLWarzone)
	}
	return stats, nil
}

// GetTicker returns the most-recent-first ring of recent votes.
func (s *SummaryService) GetTicker(ctx context.Context) ([]domain.RecentVote, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyTicker()); err == nil && cached != "" {
			var ring []domain.RecentVote
			if err := json.Unmarshal([]byte(cached), &ring); err == nil {
				return ring, nil
			}
		}
	}

	summary, err := s.store.GetGlobalSummary(ctx)
	if err != nil {
		return nil, err
	}
	ring := []domain.RecentVote{}
	if summary != nil {
		ring = summary.RecentVotes
	}

	if s.redis != nil {
		s.cacheJSON(ctx, s.redis.KeyBuilder.KeyTicker(), ring, redis.TTLTicker)
	}
	return ring, nil
}

// cacheJSON stores a marshaled payload, ignoring cache failures.
func (s *SummaryService) cacheJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.redis == nil || key == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, string(data), ttl); err != nil {
		s.logger.Debug("failed to cache aggregate payload",
			zap.String("key", key),
			zap.Error(err))
	}
}
