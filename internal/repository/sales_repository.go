// internal/repository/sales_repository.go
package repository

import (
	"context"

	"github.com/shelfaware/wastewatch/internal/domain"
)

// SalesRepository is the storage collaborator: it supplies ledger rows
// filtered by date range and store, and accepts back prediction tables.
type SalesRepository interface {
	GetSalesData(ctx context.Context, filter domain.SalesFilter) ([]domain.SalesObservation, error)
	StoreSalesData(ctx context.Context, rows []domain.SalesObservation) error
	StoreRiskPredictions(ctx context.Context, rows []domain.RiskAssessment) error
	StoreAnomalyPredictions(ctx context.Context, rows []domain.AnomalyPrediction) error
	GetRiskSummary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, error)
}
