package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/http/response"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/apierr"
)

type SnapshotHandler struct {
	engine KinshipEngine
}

func NewSnapshotHandler(engine KinshipEngine) *SnapshotHandler {
	return &SnapshotHandler{engine: engine}
}

// GET /api/snapshot
func (h *SnapshotHandler) Get(c *gin.Context) {
	snap := h.engine.Snapshot()
	if snap == nil {
		response.RespondAPIError(c, kinshipError(kinship.ErrNoSnapshot))
		return
	}
	response.RespondOK(c, gin.H{"snapshot": viewSnapshot(snap)})
}

// POST /api/snapshot/refresh
func (h *SnapshotHandler) Refresh(c *gin.Context) {
	snap, changed, err := h.engine.Refresh(c.Request.Context())
	if err != nil {
		// The previous snapshot stays published; report the failure anyway.
		response.RespondAPIError(c, apierr.New(http.StatusBadGateway, "refresh_failed", err))
		return
	}
	response.RespondOK(c, gin.H{"changed": changed, "snapshot": viewSnapshot(snap)})
}
