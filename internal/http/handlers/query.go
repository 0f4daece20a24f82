package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/runegraph/runegraph-backend/internal/http/middleware"
	"github.com/runegraph/runegraph-backend/internal/http/response"
	"github.com/runegraph/runegraph-backend/internal/services"
)

type QueryHandler struct {
	queryService services.QueryService
}

func NewQueryHandler(queryService services.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

func (qh *QueryHandler) Query(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account"})
		return
	}

	var req struct {
		Query  string                 `json:"query"`
		Params map[string]interface{} `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	records, err := qh.queryService.Run(c.Request.Context(), accountID, req.Query, req.Params)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
