package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/threadloom/braid/internal/braid"
)

const analystPersona = `---
name: athena
role: analyst
speaks-as: analysis_result
description: Breaks a request into measurable findings.
order: 1
---

You are Athena. Examine the request and report concrete findings.
`

func TestParsePersona(t *testing.T) {
	persona, err := Parse(analystPersona)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if persona.Name != "athena" {
		t.Errorf("expected name athena, got %q", persona.Name)
	}
	if persona.BraidRole() != braid.RoleAnalyst {
		t.Errorf("expected analyst role, got %s", persona.BraidRole())
	}
	if persona.MessageType() != braid.TypeAnalysisResult {
		t.Errorf("expected analysis_result type, got %s", persona.MessageType())
	}
	if persona.Prompt == "" {
		t.Error("prompt body should be retained")
	}
}

func TestParseRejectsMissingFields(t *testing.T) {
	if _, err := Parse("---\nname: nameless\n---\nbody"); err == nil {
		t.Error("missing role should fail")
	}
	if _, err := Parse("no frontmatter at all"); err == nil {
		t.Error("missing frontmatter should fail")
	}
	if _, err := Parse("---\nname: open\nrole: analyst\nnever closed"); err == nil {
		t.Error("unclosed frontmatter should fail")
	}
}

func TestUnknownTagsFallBack(t *testing.T) {
	persona, err := Parse("---\nname: odd\nrole: oracle\nspeaks-as: prophecy\n---\nspeak")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if persona.BraidRole() != braid.RoleAnalyst {
		t.Errorf("unknown role should fall back to analyst, got %s", persona.BraidRole())
	}
	if persona.MessageType() != braid.TypeAnalysisResult {
		t.Errorf("unknown type should fall back to analysis_result, got %s", persona.MessageType())
	}
}

func TestDiscoverOrdersPersonas(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "roster-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	files := map[string]string{
		"synth.md":   "---\nname: hermes\nrole: synthesizer\norder: 3\n---\nmerge",
		"analyst.md": "---\nname: athena\nrole: analyst\norder: 1\n---\nanalyze",
		"critic.md":  "---\nname: ares\nrole: validator\norder: 2\n---\nchallenge",
		"broken.md":  "not a persona",
		"notes.txt":  "ignored entirely",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	personas, err := Discover(tmpDir)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	if len(personas) != 3 {
		t.Fatalf("expected 3 valid personas, got %d", len(personas))
	}
	want := []string{"athena", "ares", "hermes"}
	for i, name := range want {
		if personas[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, personas[i].Name)
		}
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	personas, err := Discover("/nonexistent/roster/path")
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(personas) != 0 {
		t.Errorf("expected empty roster, got %d", len(personas))
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "roster-watch-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	first := filepath.Join(tmpDir, "analyst.md")
	if err := os.WriteFile(first, []byte("---\nname: athena\nrole: analyst\norder: 1\n---\nanalyze"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(tmpDir)
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	defer w.Close()

	if got := len(w.Personas()); got != 1 {
		t.Fatalf("expected 1 persona at start, got %d", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	second := filepath.Join(tmpDir, "critic.md")
	if err := os.WriteFile(second, []byte("---\nname: ares\nrole: validator\norder: 2\n---\nchallenge"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(w.Personas()) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("roster did not reload, still %d personas", len(w.Personas()))
}
