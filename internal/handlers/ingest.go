package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/services"
)

type IngestHandler struct {
	ingest services.IngestService
	log    *logger.Logger
}

func NewIngestHandler(ingest services.IngestService, baseLog *logger.Logger) *IngestHandler {
	handlerLog := baseLog.With("handler", "IngestHandler")
	return &IngestHandler{ingest: ingest, log: handlerLog}
}

type conditionBatchRequest struct {
	Source  string                        `json:"source" binding:"required"`
	Records []services.RawConditionRecord `json:"records" binding:"required"`
}

type drugBatchRequest struct {
	Source  string                   `json:"source" binding:"required"`
	Records []services.RawDrugRecord `json:"records" binding:"required"`
}

func (ih *IngestHandler) NormalizeConditions(c *gin.Context) {
	var req conditionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	batch, err := ih.ingest.NormalizeConditions(c.Request.Context(), req.Source, req.Records)
	if err != nil {
		ih.log.Error("Condition batch failed", "source", req.Source, "error", err)
		RespondError(c, http.StatusInternalServerError, "ingest_failed", err)
		return
	}
	RespondOK(c, batch)
}

func (ih *IngestHandler) NormalizeDrugExposures(c *gin.Context) {
	var req drugBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	batch, err := ih.ingest.NormalizeDrugExposures(c.Request.Context(), req.Source, req.Records)
	if err != nil {
		ih.log.Error("Drug exposure batch failed", "source", req.Source, "error", err)
		RespondError(c, http.StatusInternalServerError, "ingest_failed", err)
		return
	}
	RespondOK(c, batch)
}
