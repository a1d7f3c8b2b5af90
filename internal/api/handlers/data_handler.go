package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfaware/wastewatch/internal/service"
)

type DataHandler struct {
	service *service.GenerateService
}

func NewDataHandler(service *service.GenerateService) *DataHandler {
	return &DataHandler{service: service}
}

type generateRequest struct {
	Days   int    `json:"days"`
	Stores int    `json:"stores"`
	Seed   *int64 `json:"seed"`
}

func (h *DataHandler) GenerateData(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	count, err := h.service.Generate(c.Request.Context(), req.Days, req.Stores, seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate sales data", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "sales data generated",
		"records_stored": count,
	})
}
