package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/shelfaware/wastewatch/internal/anomaly"
	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/features"
	"github.com/shelfaware/wastewatch/internal/repository"
)

// ErrNoData is returned when a filter matches no ledger rows.
var ErrNoData = errors.New("no sales data found")

// AnomalyService runs the detection path: engineer features, project the
// matrix, query the external model and persist flagged rows with
// explanations.
type AnomalyService struct {
	repo     repository.SalesRepository
	pipeline *features.Pipeline
	detector anomaly.Detector
}

func NewAnomalyService(repo repository.SalesRepository, pipeline *features.Pipeline, detector anomaly.Detector) *AnomalyService {
	return &AnomalyService{repo: repo, pipeline: pipeline, detector: detector}
}

// DetectAnomalies returns the topN most anomalous flagged rows matching the
// filter, plus the total flagged count. All flagged rows are persisted.
func (s *AnomalyService) DetectAnomalies(ctx context.Context, filter domain.SalesFilter, topN int) ([]domain.AnomalyPrediction, int, error) {
	if topN <= 0 {
		topN = 20
	}

	obs, err := s.repo.GetSalesData(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch sales data: %w", err)
	}
	if len(obs) == 0 {
		return nil, 0, ErrNoData
	}

	vectors, err := s.pipeline.EngineerFeatures(obs)
	if err != nil {
		return nil, 0, fmt.Errorf("engineer features: %w", err)
	}

	pred, err := s.detector.Predict(ctx, s.pipeline.FeatureColumns(), s.pipeline.Matrix(vectors))
	if err != nil {
		return nil, 0, fmt.Errorf("anomaly prediction: %w", err)
	}

	flagged := make([]domain.AnomalyPrediction, 0)
	for i := range vectors {
		if !pred.Flags[i] {
			continue
		}
		vec := &vectors[i]
		flagged = append(flagged, domain.AnomalyPrediction{
			Date:         vec.Date,
			StoreID:      vec.StoreID,
			Product:      vec.Product,
			Sales:        vec.Sales,
			Waste:        vec.Waste,
			IsAnomaly:    true,
			AnomalyScore: pred.Scores[i],
			Explanation:  anomaly.Explain(vec),
		})
	}

	if err := s.repo.StoreAnomalyPredictions(ctx, flagged); err != nil {
		return nil, 0, fmt.Errorf("store anomaly predictions: %w", err)
	}

	// Lower score = more anomalous, so ascending puts the worst first.
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].AnomalyScore < flagged[j].AnomalyScore
	})

	total := len(flagged)
	if len(flagged) > topN {
		flagged = flagged[:topN]
	}

	log.Info().
		Int("rows", len(vectors)).
		Int("anomalies", total).
		Msg("anomaly detection completed")

	return flagged, total, nil
}
