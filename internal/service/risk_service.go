package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/shelfaware/wastewatch/internal/cache"
	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/features"
	"github.com/shelfaware/wastewatch/internal/repository"
	"github.com/shelfaware/wastewatch/internal/risk"
)

// RiskService drives the full risk path: fetch ledger rows, engineer
// features, score, persist the predictions and return them.
type RiskService struct {
	repo     repository.SalesRepository
	pipeline *features.Pipeline
	scorer   *risk.Scorer
	cache    cache.RiskSummaryCache
}

func NewRiskService(repo repository.SalesRepository, pipeline *features.Pipeline, scorer *risk.Scorer, cacheImpl cache.RiskSummaryCache) *RiskService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRiskSummaryCache()
	}
	return &RiskService{repo: repo, pipeline: pipeline, scorer: scorer, cache: cacheImpl}
}

// AssessRisk scores every ledger row matching the filter, stores the
// predictions and returns them sorted by descending risk score.
func (s *RiskService) AssessRisk(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskAssessment, error) {
	obs, err := s.repo.GetSalesData(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch sales data: %w", err)
	}
	if len(obs) == 0 {
		return nil, ErrNoData
	}

	vectors, err := s.pipeline.EngineerFeatures(obs)
	if err != nil {
		return nil, fmt.Errorf("engineer features: %w", err)
	}

	assessments := s.scorer.ScoreAll(vectors)

	if err := s.repo.StoreRiskPredictions(ctx, assessments); err != nil {
		return nil, fmt.Errorf("store risk predictions: %w", err)
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("risk: cache invalidation failed")
	}

	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].WasteRiskScore > assessments[j].WasteRiskScore
	})

	log.Info().
		Int("rows", len(assessments)).
		Msg("waste risk assessment completed")

	return assessments, nil
}

// HighRisk filters an assessment list down to the High tier, preserving
// order.
func HighRisk(assessments []domain.RiskAssessment) []domain.RiskAssessment {
	high := make([]domain.RiskAssessment, 0)
	for _, a := range assessments {
		if a.RiskLevel == domain.RiskHigh {
			high = append(high, a)
		}
	}
	return high
}

// Summary returns per-tier counts of stored predictions, cached per filter.
func (s *RiskService) Summary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, error) {
	if counts, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return counts, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("risk: cache get summary failed")
	}

	counts, err := s.repo.GetRiskSummary(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummary(ctx, filter, counts); err != nil {
		log.Warn().Err(err).Msg("risk: cache set summary failed")
	}

	return counts, nil
}
