package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := New()

	if cfg.Braid.MaxThreadLength != 20 {
		t.Errorf("expected max thread length 20, got %d", cfg.Braid.MaxThreadLength)
	}
	if cfg.Braid.MinConnectionStrength != 0.2 {
		t.Errorf("expected min connection strength 0.2, got %f", cfg.Braid.MinConnectionStrength)
	}
	if !cfg.Braid.SemanticLinkingEnabled() || !cfg.Braid.DebateDetectionEnabled() {
		t.Error("braid toggles should default to enabled")
	}
	if cfg.TemporalWindow().Milliseconds() != 30000 {
		t.Errorf("expected 30000ms temporal window, got %d", cfg.TemporalWindow().Milliseconds())
	}
	if cfg.Swarm.Pattern != "sequential" {
		t.Errorf("expected sequential default pattern, got %s", cfg.Swarm.Pattern)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "braid-config-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "braid.toml")
	content := `
[swarm]
id = "mythology-run"
pattern = "debate"

[llm]
provider = "anthropic"
model = "claude-sonnet-4-5"

[braid]
max_thread_length = 12
semantic_linking = false

[delivery]
enabled = true
webhook_url_env = "SLACK_WEBHOOK_URL"
channel = "#swarm-output"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Swarm.ID != "mythology-run" || cfg.Swarm.Pattern != "debate" {
		t.Errorf("swarm section not loaded: %+v", cfg.Swarm)
	}
	if cfg.Braid.MaxThreadLength != 12 {
		t.Errorf("override not applied, got %d", cfg.Braid.MaxThreadLength)
	}
	if cfg.Braid.SemanticLinkingEnabled() {
		t.Error("semantic linking should be disabled by the file")
	}
	if cfg.Braid.DebateDetectionEnabled() != true {
		t.Error("unset toggle should stay enabled")
	}
	// Unset fields keep their defaults.
	if cfg.Braid.MinConnectionStrength != 0.2 {
		t.Errorf("default should survive partial override, got %f", cfg.Braid.MinConnectionStrength)
	}
	if cfg.Delivery.Channel != "#swarm-output" {
		t.Errorf("delivery section not loaded: %+v", cfg.Delivery)
	}
}

func TestAPIKeyResolution(t *testing.T) {
	cfg := New()
	cfg.LLM.Provider = "groq"
	cfg.LLM.APIKeyEnv = "BRAID_TEST_KEY"

	t.Setenv("BRAID_TEST_KEY", "sk-test")
	if key := cfg.GetAPIKey(); key != "sk-test" {
		t.Errorf("expected explicit env var to win, got %q", key)
	}

	cfg.LLM.APIKeyEnv = ""
	t.Setenv("GROQ_API_KEY", "sk-groq")
	if key := cfg.GetAPIKey(); key != "sk-groq" {
		t.Errorf("expected provider default env var, got %q", key)
	}
}
