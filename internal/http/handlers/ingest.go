package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/runegraph/runegraph-backend/internal/http/middleware"
	"github.com/runegraph/runegraph-backend/internal/http/response"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/services"
)

type IngestHandler struct {
	log       *logger.Logger
	ingestion services.IngestionService
}

func NewIngestHandler(log *logger.Logger, ingestion services.IngestionService) *IngestHandler {
	return &IngestHandler{
		log:       log.With("handler", "IngestHandler"),
		ingestion: ingestion,
	}
}

func (ih *IngestHandler) Ingest(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	result, err := ih.ingestion.Submit(c.Request.Context(), accountID, payload)
	if err != nil {
		ih.log.Warn("submission rejected", "account_id", accountID, "error", err)
		response.RespondMapped(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"msg":        "ok",
		"txn_id":     result.TxnID,
		"data_id":    result.DataID,
		"eventCount": result.EventCount,
		"points":     result.Points,
	})
}
