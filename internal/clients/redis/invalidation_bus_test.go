package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

func TestNewInvalidationBusDisabledWithoutAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	bus, err := NewInvalidationBusFromEnv(logger.NewNop(), "a")
	if err != nil || bus != nil {
		t.Fatalf("bus=%v err=%v", bus, err)
	}
}

func TestInvalidationBusRoundTrip(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("set REDIS_ADDR to run redis integration tests")
	}
	t.Setenv("REDIS_CHANNEL", "vamshavali:test:"+uuid.NewString())
	log := logger.NewNop()

	a, err := NewInvalidationBusFromEnv(log, "replica-a")
	if err != nil {
		t.Fatalf("bus a: %v", err)
	}
	defer a.Close()
	b, err := NewInvalidationBusFromEnv(log, "replica-b")
	if err != nil {
		t.Fatalf("bus b: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gotA := make(chan Invalidation, 1)
	gotB := make(chan Invalidation, 1)
	if err := a.Subscribe(ctx, func(m Invalidation) { gotA <- m }); err != nil {
		t.Fatalf("subscribe a: %v", err)
	}
	if err := b.Subscribe(ctx, func(m Invalidation) { gotB <- m }); err != nil {
		t.Fatalf("subscribe b: %v", err)
	}

	if err := a.Publish(ctx, Invalidation{Revision: "rev-1", Version: 2}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case m := <-gotB:
		if m.Origin != "replica-a" || m.Revision != "rev-1" {
			t.Fatalf("msg=%+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("replica b never saw the invalidation")
	}
	select {
	case m := <-gotA:
		t.Fatalf("publisher received its own message: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}
