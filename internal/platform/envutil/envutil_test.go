package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("ENVUTIL_S", "  x ")
	t.Setenv("ENVUTIL_I", "12")
	t.Setenv("ENVUTIL_BAD_I", "twelve")
	t.Setenv("ENVUTIL_B", "On")
	t.Setenv("ENVUTIL_D", "3s")

	if String("ENVUTIL_S", "d") != "x" || String("ENVUTIL_MISSING", "d") != "d" {
		t.Fatalf("String")
	}
	if Int("ENVUTIL_I", 1) != 12 || Int("ENVUTIL_BAD_I", 1) != 1 {
		t.Fatalf("Int")
	}
	if !Bool("ENVUTIL_B", false) || !Bool("ENVUTIL_MISSING", true) {
		t.Fatalf("Bool")
	}
	if Duration("ENVUTIL_D", time.Second) != 3*time.Second || Duration("ENVUTIL_S", time.Second) != time.Second {
		t.Fatalf("Duration")
	}
}
