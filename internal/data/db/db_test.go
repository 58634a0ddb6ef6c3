package db

import (
	"path/filepath"
	"testing"

	"github.com/yungbote/vamshavali-backend/internal/config"
	types "github.com/yungbote/vamshavali-backend/internal/domain"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(config.SQLConfig{Driver: "SQLite", DSN: filepath.Join(t.TempDir(), "family.db")}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if svc.Driver() != "sqlite" {
		t.Fatalf("driver=%q", svc.Driver())
	}
	if err := svc.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, m := range types.Models() {
		if !svc.DB().Migrator().HasTable(m) {
			t.Fatalf("missing table for %T", m)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(config.SQLConfig{Driver: "mysql", DSN: "x"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
