package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const familyYAML = `persons:
  - {id: hari, name: Hari, gender: male}
  - {id: ram, name: Ram, gender: male}
  - {id: shyam, name: Shyam, gender: male}
  - {id: gita, name: Gita, gender: female}
relations:
  - {source: hari, target: ram, type: buwa}
  - {source: shyam, target: hari, type: daju}
`

func writeFamily(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "family.yaml")
	if err := os.WriteFile(p, []byte(familyYAML), 0o644); err != nil {
		t.Fatalf("write family: %v", err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VAMSHAVALI_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	family := writeFamily(t)

	out, err := run(t, "resolve", "ram", "shyam", "--family", family)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.HasPrefix(out, "काका / ठूलो बुवा\n") || !strings.Contains(out, "pattern-matched") {
		t.Fatalf("out=%q", out)
	}

	out, err = run(t, "resolve", "ram", "gita", "--family", family)
	if err != nil {
		t.Fatalf("resolve disconnected: %v", err)
	}
	if !strings.Contains(out, "no relationship") {
		t.Fatalf("out=%q", out)
	}

	if _, err := run(t, "resolve", "ram", "nobody", "--family", family); err == nil {
		t.Fatalf("unknown person should fail")
	}
}

func TestResolveCommandJSONWithMockPhrasing(t *testing.T) {
	family := writeFamily(t)

	out, err := run(t, "resolve", "hari", "ram", "--family", family, "--json", "--phrase", "--engine", "mock")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var res struct {
		Term     string `json:"term"`
		Phrase   string `json:"phrase"`
		Phrasing string `json:"phrasing"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Term != "छोरा" || res.Phrasing != "augmented" || !strings.HasPrefix(res.Phrase, "mock (") {
		t.Fatalf("res=%+v", res)
	}
}

func TestLabelCommand(t *testing.T) {
	out, err := run(t, "label", "buwa")
	if err != nil || !strings.Contains(out, "बुवा") {
		t.Fatalf("out=%q err=%v", out, err)
	}
	out, err = run(t, "label", "buwa", "--reverse", "--gender", "female")
	if err != nil || !strings.HasPrefix(out, "chhori\t") {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if _, err := run(t, "label", "cousin"); err == nil {
		t.Fatalf("unknown tag should fail")
	}
}

func TestTypesAndCheckCommands(t *testing.T) {
	out, err := run(t, "types")
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	if lines := strings.Count(out, "\n"); lines != 43 {
		t.Fatalf("types printed %d lines", lines)
	}

	family := writeFamily(t)
	out, err = run(t, "check", "--with-family", "--family", family)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "tables ok: 42 relation types") || !strings.Contains(out, "family ok: 4 persons, 2 relations") {
		t.Fatalf("out=%q", out)
	}
}

func TestImportCommandSQLite(t *testing.T) {
	family := writeFamily(t)
	dsn := filepath.Join(t.TempDir(), "family.db")

	if _, err := run(t, "import", "--family", family); err == nil {
		t.Fatalf("import without a target should fail")
	}
	out, err := run(t, "import", "--family", family, "--db", "--driver", "sqlite", "--dsn", dsn)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "sql: imported 4 persons, 2 relations") {
		t.Fatalf("out=%q", out)
	}
	// idempotent
	if _, err := run(t, "import", "--family", family, "--db", "--driver", "sqlite", "--dsn", dsn); err != nil {
		t.Fatalf("re-import: %v", err)
	}
}
