package family

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vamshavali-backend/internal/domain"
	"github.com/yungbote/vamshavali-backend/internal/pkg/dbctx"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

type PersonRepo interface {
	Create(dbc dbctx.Context, persons []*types.Person) ([]*types.Person, error)
	Upsert(dbc dbctx.Context, persons []*types.Person) error
	GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Person, error)
	ListAll(dbc dbctx.Context) ([]*types.Person, error)
	Count(dbc dbctx.Context) (int64, error)
	LastUpdatedAt(dbc dbctx.Context) (time.Time, error)
	SoftDelete(dbc dbctx.Context, ids []string) error
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	return &personRepo{
		db:  db,
		log: baseLog.With("repo", "PersonRepo"),
	}
}

func (r *personRepo) tx(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db)
}

func (r *personRepo) Create(dbc dbctx.Context, persons []*types.Person) ([]*types.Person, error) {
	if len(persons) == 0 {
		return []*types.Person{}, nil
	}
	if err := r.tx(dbc).Create(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *personRepo) Upsert(dbc dbctx.Context, persons []*types.Person) error {
	if len(persons) == 0 {
		return nil
	}
	return r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "gender", "attributes", "updated_at", "deleted_at"}),
		}).
		Create(&persons).Error
}

func (r *personRepo) GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Person, error) {
	var out []*types.Person
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.tx(dbc).
		Where("id IN ?", ids).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *personRepo) ListAll(dbc dbctx.Context) ([]*types.Person, error) {
	var out []*types.Person
	if err := r.tx(dbc).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *personRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.tx(dbc).Model(&types.Person{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// LastUpdatedAt covers soft-deleted rows too, so deletes move the revision.
func (r *personRepo) LastUpdatedAt(dbc dbctx.Context) (time.Time, error) {
	return lastUpdatedAt(r.tx(dbc), &types.Person{})
}

func (r *personRepo) SoftDelete(dbc dbctx.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.tx(dbc).Where("id IN ?", ids).Delete(&types.Person{}).Error
}

func lastUpdatedAt(q *gorm.DB, model any) (time.Time, error) {
	var updated struct{ UpdatedAt time.Time }
	if err := q.Session(&gorm.Session{}).Unscoped().Model(model).
		Select("updated_at").
		Order("updated_at DESC").
		Limit(1).
		Scan(&updated).Error; err != nil {
		return time.Time{}, err
	}
	var deleted struct{ DeletedAt gorm.DeletedAt }
	if err := q.Session(&gorm.Session{}).Unscoped().Model(model).
		Select("deleted_at").
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Limit(1).
		Scan(&deleted).Error; err != nil {
		return time.Time{}, err
	}
	last := updated.UpdatedAt
	if deleted.DeletedAt.Valid && deleted.DeletedAt.Time.After(last) {
		last = deleted.DeletedAt.Time
	}
	return last, nil
}
