package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/service"
)

type AnomalyHandler struct {
	service *service.AnomalyService
}

func NewAnomalyHandler(service *service.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{service: service}
}

type detectRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StoreID   int    `json:"store_id"`
	TopN      int    `json:"top_n"`
}

func (h *AnomalyHandler) DetectAnomalies(c *gin.Context) {
	var req detectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	filter := domain.SalesFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StoreID:   req.StoreID,
	}

	anomalies, total, err := h.service.DetectAnomalies(c.Request.Context(), filter, req.TopN)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sales data found for the given filter"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detect anomalies", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anomalies":       anomalies,
		"anomalies_found": total,
	})
}
