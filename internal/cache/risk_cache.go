package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfaware/wastewatch/internal/config"
	"github.com/shelfaware/wastewatch/internal/domain"
)

const (
	riskSummaryKeyPrefix = "waste_risk:summary"
	riskScanBatchSize    = 100
)

// RiskSummaryCache caches the per-tier risk counts for a given filter.
type RiskSummaryCache interface {
	GetSummary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, bool, error)
	SetSummary(ctx context.Context, filter domain.SalesFilter, counts []domain.RiskTierCount) error
	InvalidateAll(ctx context.Context) error
}

type redisRiskCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopRiskCache struct{}

// NewRiskSummaryCache returns a redis-backed cache, or the noop cache when
// caching is disabled.
func NewRiskSummaryCache(cfg config.CacheConfig) (RiskSummaryCache, error) {
	if !cfg.Enabled {
		return &noopRiskCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRiskCache{client: client, ttl: ttl}, nil
}

// NewNoopRiskSummaryCache returns a cache that never hits.
func NewNoopRiskSummaryCache() RiskSummaryCache {
	return &noopRiskCache{}
}

func (c *redisRiskCache) GetSummary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, bool, error) {
	key := buildRiskSummaryKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var counts []domain.RiskTierCount
	if err := json.Unmarshal(payload, &counts); err != nil {
		return nil, false, fmt.Errorf("decode risk summary cache: %w", err)
	}

	return counts, true, nil
}

func (c *redisRiskCache) SetSummary(ctx context.Context, filter domain.SalesFilter, counts []domain.RiskTierCount) error {
	key := buildRiskSummaryKey(filter)
	payload, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("encode risk summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisRiskCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, riskSummaryKeyPrefix, riskScanBatchSize)
}

func (n *noopRiskCache) GetSummary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, bool, error) {
	return nil, false, nil
}

func (n *noopRiskCache) SetSummary(ctx context.Context, filter domain.SalesFilter, counts []domain.RiskTierCount) error {
	return nil
}

func (n *noopRiskCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRiskSummaryKey(filter domain.SalesFilter) string {
	parts := []string{}
	if filter.StartDate != "" {
		parts = append(parts, "start="+strings.TrimSpace(filter.StartDate))
	}
	if filter.EndDate != "" {
		parts = append(parts, "end="+strings.TrimSpace(filter.EndDate))
	}
	if filter.StoreID > 0 {
		parts = append(parts, "store="+strconv.Itoa(filter.StoreID))
	}
	if len(parts) == 0 {
		parts = append(parts, "all")
	}
	return riskSummaryKeyPrefix + ":" + strings.Join(parts, "|")
}
