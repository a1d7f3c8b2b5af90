package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfaware/wastewatch/internal/anomaly"
	"github.com/shelfaware/wastewatch/internal/datagen"
	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/features"
	"github.com/shelfaware/wastewatch/internal/risk"
	"github.com/shelfaware/wastewatch/internal/service"
)

type stubRepo struct {
	rows []domain.SalesObservation
}

func (s *stubRepo) GetSalesData(ctx context.Context, filter domain.SalesFilter) ([]domain.SalesObservation, error) {
	return s.rows, nil
}

func (s *stubRepo) StoreSalesData(ctx context.Context, rows []domain.SalesObservation) error {
	return nil
}

func (s *stubRepo) StoreRiskPredictions(ctx context.Context, rows []domain.RiskAssessment) error {
	return nil
}

func (s *stubRepo) StoreAnomalyPredictions(ctx context.Context, rows []domain.AnomalyPrediction) error {
	return nil
}

func (s *stubRepo) GetRiskSummary(ctx context.Context, filter domain.SalesFilter) ([]domain.RiskTierCount, error) {
	return []domain.RiskTierCount{{RiskLevel: domain.RiskLow, Count: 12}}, nil
}

type stubDetector struct{}

func (stubDetector) Predict(ctx context.Context, columns []string, matrix [][]float64) (*anomaly.Prediction, error) {
	pred := &anomaly.Prediction{
		Flags:  make([]bool, len(matrix)),
		Scores: make([]float64, len(matrix)),
	}
	if len(matrix) > 0 {
		pred.Flags[0] = true
		pred.Scores[0] = -0.1
	}
	return pred, nil
}

func newTestRouter(rows []domain.SalesObservation) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &stubRepo{rows: rows}
	pipeline := features.NewPipeline()
	return NewRouter(&Services{
		RiskService:     service.NewRiskService(repo, pipeline, risk.NewScorer(), nil),
		AnomalyService:  service.NewAnomalyService(repo, pipeline, stubDetector{}),
		GenerateService: service.NewGenerateService(repo),
	}, nil)
}

func testRows() []domain.SalesObservation {
	return datagen.New(11).Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 14, 1)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestAssessRiskEndpoint(t *testing.T) {
	router := newTestRouter(testRows())

	body := strings.NewReader(`{"store_id": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waste-risk", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Predictions   []domain.RiskAssessment `json:"predictions"`
		Total         int                     `json:"total"`
		HighRiskCount int                     `json:"high_risk_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Predictions), resp.Total)
	assert.NotEmpty(t, resp.Predictions)
}

func TestAssessRiskEndpointNoData(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waste-risk", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssessRiskEndpointBadBody(t *testing.T) {
	router := newTestRouter(testRows())

	body := strings.NewReader(`{"store_id": "not-a-number"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waste-risk", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetectAnomaliesEndpoint(t *testing.T) {
	router := newTestRouter(testRows())

	body := strings.NewReader(`{"top_n": 3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect-anomalies", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Anomalies      []domain.AnomalyPrediction `json:"anomalies"`
		AnomaliesFound int                        `json:"anomalies_found"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.AnomaliesFound)
	require.Len(t, resp.Anomalies, 1)
	assert.True(t, resp.Anomalies[0].IsAnomaly)
}

func TestSummaryEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waste-risk/summary?store_id=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Low"`)
}

func TestGenerateDataEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	body := strings.NewReader(`{"days": 2, "stores": 1, "seed": 5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-data", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RecordsStored int `json:"records_stored"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2*25, resp.RecordsStored)
}
