package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/service"
)

type RiskHandler struct {
	service *service.RiskService
}

func NewRiskHandler(service *service.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

type assessRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StoreID   int    `json:"store_id"`
}

func (r assessRequest) toFilter() domain.SalesFilter {
	return domain.SalesFilter{
		StartDate: strings.TrimSpace(r.StartDate),
		EndDate:   strings.TrimSpace(r.EndDate),
		StoreID:   r.StoreID,
	}
}

func (h *RiskHandler) AssessRisk(c *gin.Context) {
	var req assessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	assessments, err := h.service.AssessRisk(c.Request.Context(), req.toFilter())
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sales data found for the given filter"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assess waste risk", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions":     assessments,
		"total":           len(assessments),
		"high_risk_count": len(service.HighRisk(assessments)),
	})
}

func (h *RiskHandler) GetSummary(c *gin.Context) {
	filter := domain.SalesFilter{
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	}
	if storeID, err := strconv.Atoi(c.DefaultQuery("store_id", "0")); err == nil && storeID > 0 {
		filter.StoreID = storeID
	}

	summary, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch risk summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
