package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/platform/apierr"
)

// KinshipEngine is the part of *kinship.Engine the API serves.
type KinshipEngine interface {
	Snapshot() *kinship.Snapshot
	Refresh(ctx context.Context) (*kinship.Snapshot, bool, error)
	Resolve(ctx context.Context, sourceID, targetID string, opts kinship.ResolveOptions) (*kinship.Result, error)
	LabelEdge(rel kinship.Relation, reverse bool) (string, error)
	LabelGraph() ([]kinship.EdgeLabels, error)
}

var _ KinshipEngine = (*kinship.Engine)(nil)

func kinshipError(err error) *apierr.Error {
	switch {
	case errors.Is(err, kinship.ErrNoSnapshot):
		return apierr.New(http.StatusServiceUnavailable, "snapshot_unavailable", err)
	case errors.Is(err, kinship.ErrPersonNotFound):
		return apierr.New(http.StatusNotFound, "person_not_found", err)
	case errors.Is(err, kinship.ErrUnmappedRelationType):
		return apierr.New(http.StatusInternalServerError, "unmapped_relation_type", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", err)
	}
}

type snapshotView struct {
	Version   uint64             `json:"version"`
	Revision  string             `json:"revision"`
	Persons   int                `json:"persons"`
	Relations int                `json:"relations"`
	Stats     kinship.BuildStats `json:"stats"`
	BuiltAt   string             `json:"built_at"`
}

func viewSnapshot(s *kinship.Snapshot) snapshotView {
	return snapshotView{
		Version:   s.Version,
		Revision:  s.Revision,
		Persons:   s.Stats.Persons,
		Relations: s.Stats.Relations,
		Stats:     s.Stats,
		BuiltAt:   s.BuiltAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
