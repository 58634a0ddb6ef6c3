package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/http/response"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

type relationTypeView struct {
	Type          kinship.RelationType `json:"type"`
	Category      kinship.Category     `json:"category"`
	Label         kinship.Label        `json:"label"`
	InverseMale   kinship.RelationType `json:"inverse_male"`
	InverseFemale kinship.RelationType `json:"inverse_female"`
}

type RelationTypeHandler struct {
	views []relationTypeView
}

// NewRelationTypeHandler precomputes the listing; the tables are static.
func NewRelationTypeHandler() (*RelationTypeHandler, error) {
	all := kinship.AllRelationTypes()
	views := make([]relationTypeView, 0, len(all))
	for _, t := range all {
		l, err := kinship.LabelOf(t)
		if err != nil {
			return nil, err
		}
		im, err := kinship.Inverse(t, kinship.Male)
		if err != nil {
			return nil, err
		}
		iff, err := kinship.Inverse(t, kinship.Female)
		if err != nil {
			return nil, err
		}
		views = append(views, relationTypeView{
			Type:          t,
			Category:      t.Category(),
			Label:         l,
			InverseMale:   im,
			InverseFemale: iff,
		})
	}
	return &RelationTypeHandler{views: views}, nil
}

// GET /api/relation-types
func (h *RelationTypeHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"relation_types": h.views})
}
