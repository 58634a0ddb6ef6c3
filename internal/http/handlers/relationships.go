package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/http/response"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/apierr"
)

type RelationshipHandler struct {
	engine KinshipEngine
}

func NewRelationshipHandler(engine KinshipEngine) *RelationshipHandler {
	return &RelationshipHandler{engine: engine}
}

type resolveRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Phrase bool   `json:"phrase"`
}

// GET /api/relationships?from=&to=&phrase=
func (h *RelationshipHandler) Get(c *gin.Context) {
	req := resolveRequest{
		From: strings.TrimSpace(c.Query("from")),
		To:   strings.TrimSpace(c.Query("to")),
	}
	if req.From == "" || req.To == "" {
		response.RespondAPIError(c, apierr.BadRequest(errors.New("from and to are required")))
		return
	}
	if raw := strings.TrimSpace(c.Query("phrase")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest(fmt.Errorf("phrase: %w", err)))
			return
		}
		req.Phrase = v
	}
	h.resolve(c, req)
}

// POST /api/relationships/resolve
func (h *RelationshipHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	if req.From == "" || req.To == "" {
		response.RespondAPIError(c, apierr.BadRequest(errors.New("from and to are required")))
		return
	}
	h.resolve(c, req)
}

func (h *RelationshipHandler) resolve(c *gin.Context, req resolveRequest) {
	res, err := h.engine.Resolve(c.Request.Context(), req.From, req.To, kinship.ResolveOptions{Phrase: req.Phrase})
	if errors.Is(err, kinship.ErrNoPathFound) {
		// A disconnected pair is an answer, not a failure.
		response.RespondOK(c, gin.H{"found": false, "from": req.From, "to": req.To})
		return
	}
	if err != nil {
		response.RespondAPIError(c, kinshipError(err))
		return
	}
	response.RespondOK(c, gin.H{"found": true, "relationship": res})
}
