package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/vamshavali-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vamshavali-backend/internal/domain"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/pkg/dbctx"
)

func TestPersonRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPersonRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.Person{
		{ID: "ram", Name: "Ram", Gender: "male"},
		{Name: "Sita", Gender: "female"},
		{ID: "kim", Name: "Kim"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[1].ID == "" {
		t.Fatalf("BeforeCreate should assign an id")
	}
	if created[2].Gender != "unspecified" {
		t.Fatalf("gender=%q", created[2].Gender)
	}

	got, err := repo.GetByIDs(dbc, []string{"ram", "kim", "nobody"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 2 || got[0].ID != "kim" || got[1].ID != "ram" {
		t.Fatalf("GetByIDs: unexpected result: %+v", got)
	}

	if err := repo.Upsert(dbc, []*types.Person{{ID: "ram", Name: "Ram Bahadur", Gender: "male"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, _ = repo.GetByIDs(dbc, []string{"ram"})
	if len(got) != 1 || got[0].Name != "Ram Bahadur" {
		t.Fatalf("Upsert did not update: %+v", got)
	}

	n, err := repo.Count(dbc)
	if err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	if err := repo.SoftDelete(dbc, []string{"kim"}); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	all, err := repo.ListAll(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll: len=%d err=%v", len(all), err)
	}
}

func TestPersonAttributesAndKinship(t *testing.T) {
	p := &types.Person{ID: "ram", Name: "Ram", Gender: "M"}
	if err := p.SetAttributes(types.PersonAttributes{Address: "Pokhara", Mobile: "98"}); err != nil {
		t.Fatalf("SetAttributes: %v", err)
	}
	a, err := p.GetAttributes()
	if err != nil || a.Address != "Pokhara" || a.Mobile != "98" {
		t.Fatalf("attrs=%+v err=%v", a, err)
	}
	if kp := p.Kinship(); kp.Gender != kinship.Male || kp.ID != "ram" {
		t.Fatalf("kinship=%+v", kp)
	}
	p.Gender = "robot"
	if kp := p.Kinship(); kp.Gender != kinship.Unspecified {
		t.Fatalf("unknown gender should read as unspecified: %+v", kp)
	}
}

func TestRelationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedPerson(t, ctx, tx, "ram", "Ram", "male")
	testutil.SeedPerson(t, ctx, tx, "hari", "Hari", "male")
	testutil.SeedPerson(t, ctx, tx, "sita", "Sita", "female")

	repo := NewRelationRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.Relation{
		{SourceID: "ram", TargetID: "hari", Type: "buwa"},
		{SourceID: "sita", TargetID: "ram", Type: "shreemati"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == "" {
		t.Fatalf("expected id")
	}

	if _, err := repo.Create(dbc, []*types.Relation{{SourceID: "ram", TargetID: "hari", Type: "buwa"}}); err == nil {
		t.Fatalf("duplicate edge should violate idx_relation_edge")
	}
}

func TestRelationRepoListByPerson(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedRelation(t, ctx, tx, "ram", "hari", "buwa")
	testutil.SeedRelation(t, ctx, tx, "sita", "ram", "shreemati")
	testutil.SeedRelation(t, ctx, tx, "gita", "sita", "bahini")

	repo := NewRelationRepo(db, testutil.Logger(t))
	got, err := repo.ListByPerson(dbc, "ram")
	if err != nil {
		t.Fatalf("ListByPerson: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByPerson: %+v", got)
	}
	n, err := repo.Count(dbc)
	if err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
}

func seedFamily(t *testing.T, s *Store) {
	t.Helper()
	err := s.Import(context.Background(), kinship.Dataset{
		Persons: []kinship.Person{
			{ID: "ram", Name: "Ram", Gender: kinship.Male},
			{ID: "hari", Name: "Hari", Gender: kinship.Male},
			{ID: "shyam", Name: "Shyam", Gender: kinship.Male},
		},
		Relations: []kinship.Relation{
			{SourceID: "hari", TargetID: "ram", Type: kinship.Buwa},
			{SourceID: "shyam", TargetID: "hari", Type: kinship.Daju},
		},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
}

func TestStoreLoadFeedsEngine(t *testing.T) {
	s := NewStore(testutil.DB(t), testutil.Logger(t))
	seedFamily(t, s)

	ds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Persons) != 3 || len(ds.Relations) != 2 || ds.Revision == "" {
		t.Fatalf("dataset=%+v", ds)
	}

	compounds, err := kinship.DefaultCompounds()
	if err != nil {
		t.Fatalf("DefaultCompounds: %v", err)
	}
	eng := kinship.NewEngine(s, kinship.NewResolver(compounds), nil, kinship.EngineOptions{})
	if _, _, err := eng.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	res, err := eng.Resolve(context.Background(), "ram", "shyam", kinship.ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Term != "काका / ठूलो बुवा" {
		t.Fatalf("term=%q", res.Term)
	}
}

func TestStoreImportIsIdempotent(t *testing.T) {
	s := NewStore(testutil.DB(t), testutil.Logger(t))
	seedFamily(t, s)
	rev1, err := s.Revision(context.Background())
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	seedFamily(t, s)

	n, err := s.Relations.Count(dbctx.Context{Ctx: context.Background()})
	if err != nil || n != 2 {
		t.Fatalf("re-import duplicated relations: n=%d err=%v", n, err)
	}
	rev2, err := s.Revision(context.Background())
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	if rev2 == "" || rev1 == "" {
		t.Fatalf("empty revision")
	}
}

func TestStoreRevisionMovesOnDelete(t *testing.T) {
	s := NewStore(testutil.DB(t), testutil.Logger(t))
	seedFamily(t, s)
	ctx := context.Background()

	before, err := s.Revision(ctx)
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Relations.SoftDelete(dbctx.Context{Ctx: ctx}, []string{"shyam:daju:hari"}); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	after, err := s.Revision(ctx)
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	if before == after {
		t.Fatalf("revision did not change after delete: %s", after)
	}
}

func TestStoreImportRejectsBadRelations(t *testing.T) {
	s := NewStore(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()

	err := s.Import(ctx, kinship.Dataset{
		Persons:   []kinship.Person{{ID: "a"}, {ID: "b"}},
		Relations: []kinship.Relation{{SourceID: "a", TargetID: "b", Type: "cousin"}},
	})
	if !errors.Is(err, kinship.ErrUnmappedRelationType) {
		t.Fatalf("err=%v", err)
	}

	err = s.Import(ctx, kinship.Dataset{
		Persons:   []kinship.Person{{ID: "a"}},
		Relations: []kinship.Relation{{SourceID: "a", TargetID: "a", Type: kinship.Buwa}},
	})
	if err == nil {
		t.Fatalf("self-link should be rejected")
	}

	err = s.Import(ctx, kinship.Dataset{
		Persons:   []kinship.Person{{ID: "a"}},
		Relations: []kinship.Relation{{SourceID: "a", TargetID: "ghost", Type: kinship.Buwa}},
	})
	if !errors.Is(err, kinship.ErrPersonNotFound) {
		t.Fatalf("err=%v", err)
	}
	n, _ := s.Persons.Count(dbctx.Context{Ctx: ctx})
	if n != 0 {
		t.Fatalf("failed import must roll back, persons=%d", n)
	}
}
