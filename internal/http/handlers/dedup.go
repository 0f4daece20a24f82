package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/runegraph/runegraph-backend/internal/graph"
	"github.com/runegraph/runegraph-backend/internal/http/response"
	"github.com/runegraph/runegraph-backend/internal/platform/logger"
)

// DedupHandler exposes the out-of-band entity maintenance pass.
type DedupHandler struct {
	log   *logger.Logger
	dedup graph.DedupService
}

func NewDedupHandler(log *logger.Logger, dedup graph.DedupService) *DedupHandler {
	return &DedupHandler{
		log:   log.With("handler", "DedupHandler"),
		dedup: dedup,
	}
}

func (dh *DedupHandler) Scan(c *gin.Context) {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	groups, err := dh.dedup.FindDuplicates(c.Request.Context(), req.Category)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (dh *DedupHandler) Merge(c *gin.Context) {
	var req struct {
		Category     string   `json:"category"`
		PrimaryID    string   `json:"primary_id"`
		DuplicateIDs []string `json:"duplicate_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := dh.dedup.Merge(c.Request.Context(), req.Category, req.PrimaryID, req.DuplicateIDs); err != nil {
		response.RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (dh *DedupHandler) Sweep(c *gin.Context) {
	merged, err := dh.dedup.Sweep(c.Request.Context())
	if err != nil {
		dh.log.Error("dedup sweep failed", "error", err, "merged_before_failure", merged)
		response.RespondMapped(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"merged": merged})
}
