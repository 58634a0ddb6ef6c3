package family

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	types "github.com/yungbote/vamshavali-backend/internal/domain"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/pkg/dbctx"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

// Store is the SQL relation store: the two repos plus the kinship.Source
// view the engine snapshots from.
type Store struct {
	db        *gorm.DB
	Persons   PersonRepo
	Relations RelationRepo
	log       *logger.Logger
}

func NewStore(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{
		db:        db,
		Persons:   NewPersonRepo(db, baseLog),
		Relations: NewRelationRepo(db, baseLog),
		log:       baseLog.With("store", "SQLFamilyStore"),
	}
}

// Revision changes whenever a row is added, edited or soft-deleted.
func (s *Store) Revision(ctx context.Context) (string, error) {
	dbc := dbctx.Context{Ctx: ctx}
	np, err := s.Persons.Count(dbc)
	if err != nil {
		return "", err
	}
	nr, err := s.Relations.Count(dbc)
	if err != nil {
		return "", err
	}
	pt, err := s.Persons.LastUpdatedAt(dbc)
	if err != nil {
		return "", err
	}
	rt, err := s.Relations.LastUpdatedAt(dbc)
	if err != nil {
		return "", err
	}
	last := pt
	if rt.After(last) {
		last = rt
	}
	return fmt.Sprintf("sql:p%d:r%d:%d", np, nr, last.UTC().UnixNano()), nil
}

func (s *Store) Load(ctx context.Context) (kinship.Dataset, error) {
	rev, err := s.Revision(ctx)
	if err != nil {
		return kinship.Dataset{}, fmt.Errorf("revision: %w", err)
	}

	var (
		persons   []*types.Person
		relations []*types.Relation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persons, err = s.Persons.ListAll(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		relations, err = s.Relations.ListAll(dbctx.Context{Ctx: gctx})
		return err
	})
	if err := g.Wait(); err != nil {
		return kinship.Dataset{}, fmt.Errorf("load family: %w", err)
	}

	ds := kinship.Dataset{
		Persons:   make([]kinship.Person, 0, len(persons)),
		Relations: make([]kinship.Relation, 0, len(relations)),
		Revision:  rev,
	}
	for _, p := range persons {
		ds.Persons = append(ds.Persons, p.Kinship())
	}
	for _, r := range relations {
		ds.Relations = append(ds.Relations, r.Kinship())
	}
	return ds, nil
}

// Import upserts a dataset in one transaction. Every relation type must be
// known and every relation must join two distinct persons of the dataset or
// the store.
func (s *Store) Import(ctx context.Context, ds kinship.Dataset) error {
	for _, r := range ds.Relations {
		if !r.Type.Valid() {
			return fmt.Errorf("relation %s: %w: %q", r.ID, kinship.ErrUnmappedRelationType, string(r.Type))
		}
		if r.SourceID == r.TargetID {
			return fmt.Errorf("relation %s: self-link on %s", r.ID, r.SourceID)
		}
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		rows := make([]*types.Person, 0, len(ds.Persons))
		for _, p := range ds.Persons {
			rows = append(rows, types.PersonFromKinship(p))
		}
		if err := s.Persons.Upsert(dbc, rows); err != nil {
			return fmt.Errorf("upsert persons: %w", err)
		}

		known := map[string]bool{}
		for _, p := range ds.Persons {
			known[p.ID] = true
		}
		var missing []string
		for _, r := range ds.Relations {
			for _, id := range []string{r.SourceID, r.TargetID} {
				if !known[id] {
					missing = append(missing, id)
					known[id] = true
				}
			}
		}
		if len(missing) > 0 {
			found, err := s.Persons.GetByIDs(dbc, missing)
			if err != nil {
				return err
			}
			if len(found) != len(missing) {
				return fmt.Errorf("%w: relations reference %d unknown persons", kinship.ErrPersonNotFound, len(missing)-len(found))
			}
		}

		rels := make([]*types.Relation, 0, len(ds.Relations))
		for _, r := range ds.Relations {
			row := types.RelationFromKinship(r)
			if row.ID == "" {
				row.ID = edgeID(r)
			}
			rels = append(rels, row)
		}
		if err := s.Relations.Upsert(dbc, rels); err != nil {
			return fmt.Errorf("upsert relations: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("family imported", "persons", len(ds.Persons), "relations", len(ds.Relations), "took", time.Since(start).String())
	return nil
}

// edgeID gives id-less relations a stable key so re-imports update in place.
func edgeID(r kinship.Relation) string {
	return r.SourceID + ":" + string(r.Type) + ":" + r.TargetID
}
