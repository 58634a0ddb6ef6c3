package dbctx

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ctxKey struct{}

func TestDBPrefersTransaction(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:dbctx_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tx := db.Begin()
	t.Cleanup(func() { tx.Rollback() })

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	got := Context{Ctx: ctx, Tx: tx}.DB(db)
	if got.Statement.ConnPool != tx.Statement.ConnPool {
		t.Fatalf("expected the transaction handle")
	}
	if got.Statement.Context.Value(ctxKey{}) != "v" {
		t.Fatalf("context not bound")
	}

	plain := Background().DB(db)
	if plain.Statement.ConnPool != db.Statement.ConnPool {
		t.Fatalf("expected the fallback handle")
	}
}
