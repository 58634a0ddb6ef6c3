package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/http/response"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/apierr"
)

type EdgeHandler struct {
	engine KinshipEngine
}

func NewEdgeHandler(engine KinshipEngine) *EdgeHandler {
	return &EdgeHandler{engine: engine}
}

type labelEdgeRequest struct {
	Relation struct {
		ID       string `json:"id"`
		SourceID string `json:"source_id" binding:"required"`
		TargetID string `json:"target_id" binding:"required"`
		Type     string `json:"type" binding:"required"`
	} `json:"relation" binding:"required"`
	Reverse bool `json:"reverse"`
}

// POST /api/edges/label
func (h *EdgeHandler) Label(c *gin.Context) {
	var req labelEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	typ, err := kinship.ParseRelationType(req.Relation.Type)
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	rel := kinship.Relation{
		ID:       req.Relation.ID,
		SourceID: strings.TrimSpace(req.Relation.SourceID),
		TargetID: strings.TrimSpace(req.Relation.TargetID),
		Type:     typ,
	}
	if rel.SourceID == rel.TargetID {
		response.RespondAPIError(c, apierr.BadRequest(errors.New("relation links a person to themselves")))
		return
	}

	label, err := h.engine.LabelEdge(rel, req.Reverse)
	if err != nil {
		response.RespondAPIError(c, kinshipError(err))
		return
	}
	response.RespondOK(c, gin.H{"label": label, "reverse": req.Reverse, "relation": rel})
}

// GET /api/edges
func (h *EdgeHandler) List(c *gin.Context) {
	edges, err := h.engine.LabelGraph()
	if err != nil {
		response.RespondAPIError(c, kinshipError(err))
		return
	}
	response.RespondOK(c, gin.H{"edges": edges})
}
