package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shelfaware/wastewatch/internal/datagen"
	"github.com/shelfaware/wastewatch/internal/repository"
)

// GenerateService produces synthetic ledger rows and stores them.
type GenerateService struct {
	repo repository.SalesRepository
}

func NewGenerateService(repo repository.SalesRepository) *GenerateService {
	return &GenerateService{repo: repo}
}

// Generate creates nDays x nStores of synthetic history ending today and
// persists it. The seed makes the output reproducible.
func (s *GenerateService) Generate(ctx context.Context, nDays, nStores int, seed int64) (int, error) {
	if nDays <= 0 {
		nDays = 30
	}
	if nStores <= 0 {
		nStores = 1
	}

	gen := datagen.New(seed)
	rows := gen.Generate(time.Now().UTC().Truncate(24*time.Hour), nDays, nStores)

	if err := s.repo.StoreSalesData(ctx, rows); err != nil {
		return 0, fmt.Errorf("store generated data: %w", err)
	}

	log.Info().
		Int("rows", len(rows)).
		Int("days", nDays).
		Int("stores", nStores).
		Int64("seed", seed).
		Msg("generated synthetic sales data")

	return len(rows), nil
}
