// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/repository"
)

type salesRepository struct {
	db *DB
}

// NewSalesRepository returns the Postgres-backed sales repository.
func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

// InitSchema creates the ledger and prediction tables if they do not exist.
func InitSchema(ctx context.Context, db *DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sales_data (
			id BIGSERIAL PRIMARY KEY,
			date DATE NOT NULL,
			store_id INTEGER NOT NULL,
			category TEXT NOT NULL,
			product TEXT NOT NULL,
			sales DOUBLE PRECISION NOT NULL,
			stock DOUBLE PRECISION NOT NULL,
			waste DOUBLE PRECISION NOT NULL,
			waste_percentage DOUBLE PRECISION NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			day_of_week INTEGER,
			shelf_life_days INTEGER,
			perishable BOOLEAN,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS anomaly_predictions (
			id BIGSERIAL PRIMARY KEY,
			date DATE NOT NULL,
			store_id INTEGER NOT NULL,
			product TEXT NOT NULL,
			is_anomaly BOOLEAN NOT NULL,
			anomaly_score DOUBLE PRECISION NOT NULL,
			explanation TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS waste_risk_predictions (
			id BIGSERIAL PRIMARY KEY,
			date DATE NOT NULL,
			store_id INTEGER NOT NULL,
			product TEXT NOT NULL,
			waste_risk_score DOUBLE PRECISION NOT NULL,
			risk_level TEXT NOT NULL,
			explanation TEXT,
			recommendations JSONB,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (r *salesRepository) GetSalesData(ctx context.Context, filter domain.SalesFilter) ([]domain.SalesObservation, error) {
	query := `
        SELECT date, store_id, category, product, sales, stock, waste,
               waste_percentage, price, day_of_week, shelf_life_days, perishable
        FROM sales_data
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", argCounter))
		args = append(args, filter.StartDate)
		argCounter++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", argCounter))
		args = append(args, filter.EndDate)
		argCounter++
	}
	if filter.StoreID > 0 {
		conditions = append(conditions, fmt.Sprintf("store_id = $%d", argCounter))
		args = append(args, filter.StoreID)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY store_id, product, date"

	var rows []domain.SalesObservation
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting sales data: %w", err)
	}

	return rows, nil
}

func (r *salesRepository) StoreSalesData(ctx context.Context, rows []domain.SalesObservation) error {
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_data (
				date, store_id, category, product, sales, stock, waste,
				waste_percentage, price, day_of_week, shelf_life_days, perishable
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx,
				row.Date, row.StoreID, row.Category, row.Product,
				row.Sales, row.Stock, row.Waste, row.WastePercentage,
				row.Price, row.DayOfWeek, row.ShelfLifeDays, row.Perishable,
			); err != nil {
				return fmt.Errorf("failed to insert sales row: %w", err)
			}
		}
		return nil
	})
}

func (r *salesRepository) StoreRiskPredictions(ctx context.Context, rows []domain.RiskAssessment) error {
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO waste_risk_predictions (
				date, store_id, product, waste_risk_score, risk_level,
				explanation, recommendations
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			recs, err := json.Marshal(row.Recommendations)
			if err != nil {
				return fmt.Errorf("failed to encode recommendations: %w", err)
			}
			if _, err := stmt.ExecContext(ctx,
				row.Date, row.StoreID, row.Product, row.WasteRiskScore,
				string(row.RiskLevel), row.Explanation, recs,
			); err != nil {
				return fmt.Errorf("failed to insert risk prediction: %w", err)
			}
		}
		return nil
	})
}

func (r *salesRepository) StoreAnomalyPredictions(ctx context.Context, rows []domain.AnomalyPrediction) error {
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO anomaly_predictions (
				date, store_id, product, is_anomaly, anomaly_score, explanation
			) VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx,
				row.Date, row.StoreID, row.Product,
				row.IsAnomaly, row.AnomalyScore, row.Explanation,
			); err != nil {
				return fmt.Errorf("failed to insert anomaly prediction: %w", err)
			}
		}
		return nil
	})
}

func (r *salesRepository) GetRiskSummary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, error) {
	query := `
        SELECT risk_level, COUNT(*) as count
        FROM waste_risk_predictions
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", argCounter))
		args = append(args, filter.StartDate)
		argCounter++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", argCounter))
		args = append(args, filter.EndDate)
		argCounter++
	}
	if filter.StoreID > 0 {
		conditions = append(conditions, fmt.Sprintf("store_id = $%d", argCounter))
		args = append(args, filter.StoreID)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY risk_level"

	var counts []domain.RiskTierCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("error getting risk summary: %w", err)
	}

	return counts, nil
}
