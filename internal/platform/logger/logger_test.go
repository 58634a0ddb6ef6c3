package logger

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/vamshavali-backend/internal/platform/ctxutil"
)

func observed(s *scrubber) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), scrub: s}, logs
}

func TestScrubberRedactsAndHashes(t *testing.T) {
	log, logs := observed(&scrubber{enabled: true, salt: "pepper"})
	log.Info("person loaded",
		"person_id", "ram",
		"name", "Ram",
		"mobile", "9800000000",
		"attrs", map[string]any{"address": "Pokhara", "gotra": "Kashyap"},
	)

	fields := logs.All()[0].ContextMap()
	if fields["person_id"] != "ram" {
		t.Fatalf("person_id=%v", fields["person_id"])
	}
	if fields["mobile"] != "[REDACTED]" {
		t.Fatalf("mobile=%v", fields["mobile"])
	}
	name, _ := fields["name"].(string)
	if !strings.HasPrefix(name, "hash:") || len(name) != len("hash:")+12 {
		t.Fatalf("name=%q", name)
	}
	attrs, _ := fields["attrs"].(map[string]any)
	if attrs["address"] != "[REDACTED]" || attrs["gotra"] != "Kashyap" {
		t.Fatalf("attrs=%v", attrs)
	}
}

func TestScrubberDisabledAndOddArgs(t *testing.T) {
	log, logs := observed(&scrubber{})
	log.Warn("raw", "password", "hunter2")
	if got := logs.All()[0].ContextMap()["password"]; got != "hunter2" {
		t.Fatalf("disabled scrubber changed value: %v", got)
	}

	s := &scrubber{enabled: true}
	out := s.apply([]any{"token", "abc", "dangling"})
	if len(out) != 3 || out[1] != "[REDACTED]" || out[2] != "dangling" {
		t.Fatalf("out=%v", out)
	}
}

func TestForAddsRequestIDs(t *testing.T) {
	log, logs := observed(&scrubber{})

	log.For(context.Background()).Info("no trace")
	ctx := ctxutil.WithTrace(context.Background(), ctxutil.Trace{TraceID: "t-1", RequestID: "r-1"})
	log.For(ctx).Info("traced")

	entries := logs.All()
	if _, ok := entries[0].ContextMap()["request_id"]; ok {
		t.Fatalf("untraced context should add no fields")
	}
	got := entries[1].ContextMap()
	if got["request_id"] != "r-1" || got["trace_id"] != "t-1" {
		t.Fatalf("fields=%v", got)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := New("development"); err == nil {
		t.Fatalf("expected LOG_LEVEL error")
	}
	t.Setenv("LOG_LEVEL", "warn")
	l, err := New("production")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("LOG_LEVEL=warn should disable info")
	}
}
