package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/http/response"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

type HealthHandler struct {
	engine KinshipEngine
}

func NewHealthHandler(engine KinshipEngine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.engine == nil || h.engine.Snapshot() == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "snapshot_unavailable", kinship.ErrNoSnapshot)
		return
	}
	response.RespondOK(c, gin.H{"status": "ready", "version": h.engine.Snapshot().Version})
}
