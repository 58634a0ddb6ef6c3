package family

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vamshavali-backend/internal/domain"
	"github.com/yungbote/vamshavali-backend/internal/pkg/dbctx"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

type RelationRepo interface {
	Create(dbc dbctx.Context, relations []*types.Relation) ([]*types.Relation, error)
	Upsert(dbc dbctx.Context, relations []*types.Relation) error
	ListAll(dbc dbctx.Context) ([]*types.Relation, error)
	ListByPerson(dbc dbctx.Context, personID string) ([]*types.Relation, error)
	Count(dbc dbctx.Context) (int64, error)
	LastUpdatedAt(dbc dbctx.Context) (time.Time, error)
	SoftDelete(dbc dbctx.Context, ids []string) error
}

type relationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationRepo(db *gorm.DB, baseLog *logger.Logger) RelationRepo {
	return &relationRepo{
		db:  db,
		log: baseLog.With("repo", "RelationRepo"),
	}
}

func (r *relationRepo) tx(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db)
}

func (r *relationRepo) Create(dbc dbctx.Context, relations []*types.Relation) ([]*types.Relation, error) {
	if len(relations) == 0 {
		return []*types.Relation{}, nil
	}
	if err := r.tx(dbc).Create(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

// Upsert keys on id; a second row for the same (source, target, type) fails
// on idx_relation_edge.
func (r *relationRepo) Upsert(dbc dbctx.Context, relations []*types.Relation) error {
	if len(relations) == 0 {
		return nil
	}
	return r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"source_id", "target_id", "type", "updated_at", "deleted_at"}),
		}).
		Create(&relations).Error
}

func (r *relationRepo) ListAll(dbc dbctx.Context) ([]*types.Relation, error) {
	var out []*types.Relation
	if err := r.tx(dbc).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *relationRepo) ListByPerson(dbc dbctx.Context, personID string) ([]*types.Relation, error) {
	var out []*types.Relation
	if personID == "" {
		return out, nil
	}
	if err := r.tx(dbc).
		Where("source_id = ? OR target_id = ?", personID, personID).
		Order("created_at, id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *relationRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.tx(dbc).Model(&types.Relation{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *relationRepo) LastUpdatedAt(dbc dbctx.Context) (time.Time, error) {
	return lastUpdatedAt(r.tx(dbc), &types.Relation{})
}

func (r *relationRepo) SoftDelete(dbc dbctx.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.tx(dbc).Where("id IN ?", ids).Delete(&types.Relation{}).Error
}
