package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"429", statusErr(429), true},
		{"503 wrapped", fmt.Errorf("upstream: %w", statusErr(503)), true},
		{"501", statusErr(501), false},
		{"401", statusErr(401), false},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"plain", errors.New("bad request body"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestJitterSleepStaysInBand(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 200; i++ {
		d := JitterSleep(base)
		if d < 80*time.Millisecond || d > 120*time.Millisecond {
			t.Fatalf("jitter out of band: %s", d)
		}
	}
	if JitterSleep(0) != 0 || JitterSleep(-time.Second) != 0 {
		t.Fatalf("non-positive base should not sleep")
	}
}
