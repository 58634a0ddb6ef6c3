package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

const familyYAML = `persons:
  - {id: ram, name: Ram, gender: male}
  - {id: sita, name: Sita, gender: female}
relations:
  - {source: ram, target: sita, type: buwa}
`

func testConfig(t *testing.T, family string) *config.Config {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENABLED", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "family.yaml")
	if err := os.WriteFile(path, []byte(family), 0o644); err != nil {
		t.Fatalf("write family: %v", err)
	}
	return &config.Config{
		Env:     "test",
		Service: "vamshavali-test",
		HTTP: config.HTTPConfig{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: config.Duration{Duration: time.Second},
			MaxRequestBytes: 1 << 16,
		},
		Store: config.StoreConfig{
			Kind:          "file",
			FamilyFile:    path,
			Watch:         true,
			WatchDebounce: config.Duration{Duration: 20 * time.Millisecond},
		},
		Refresh: config.RefreshConfig{Timeout: config.Duration{Duration: 5 * time.Second}},
		Phrasing: config.PhrasingConfig{
			Timeout: config.Duration{Duration: time.Second},
			Engine:  config.EngineConfig{Type: "mock"},
		},
	}
}

func TestAppServesFileStore(t *testing.T) {
	cfg := testConfig(t, familyYAML)
	a, err := New(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	if _, err := a.refresh(context.Background(), "test"); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/relationships?from=ram&to=sita&phrase=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"term":"छोरी"`) || !strings.Contains(body, `"phrasing":"augmented"`) {
		t.Fatalf("body=%s", body)
	}
}

func TestAppRunReloadsOnFileChange(t *testing.T) {
	cfg := testConfig(t, familyYAML)
	a, err := New(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	waitFor(t, func() bool { return a.Engine.Snapshot() != nil })
	first := a.Engine.Snapshot().Version

	edited := familyYAML + "# edited\n"
	// Let the watcher register before the write.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(cfg.Store.FamilyFile, []byte(edited), 0o644); err != nil {
		t.Fatalf("rewrite family: %v", err)
	}
	waitFor(t, func() bool { return a.Engine.Snapshot().Version > first })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestAppRunFailsWithoutFirstSnapshot(t *testing.T) {
	cfg := testConfig(t, "persons: [")
	a, err := New(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	if err := a.Run(context.Background()); err == nil {
		t.Fatalf("expected initial snapshot error")
	}
}

func TestNewRejectsMisconfiguredPhrasing(t *testing.T) {
	cfg := testConfig(t, familyYAML)
	cfg.Phrasing.Engine.Type = "gemini"
	if _, err := New(context.Background(), cfg, logger.NewNop()); err == nil {
		t.Fatalf("expected error")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
