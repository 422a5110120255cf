package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/threadloom/braid/internal/braid"
	"github.com/threadloom/braid/internal/config"
	"github.com/threadloom/braid/internal/transcript"
)

func TestBraidConfigMapping(t *testing.T) {
	cfg := config.New()
	cfg.Braid.MaxThreadLength = 5
	cfg.Braid.TemporalWindowMS = 45000
	off := false
	cfg.Braid.SemanticLinking = &off

	bc := braidConfig(cfg)
	if bc.MaxThreadLength != 5 {
		t.Errorf("max thread length not mapped, got %d", bc.MaxThreadLength)
	}
	if bc.TemporalWindow != 45*time.Second {
		t.Errorf("temporal window not mapped, got %v", bc.TemporalWindow)
	}
	if bc.EnableSemanticLinking {
		t.Error("semantic linking toggle not mapped")
	}
	if !bc.EnableDebateDetection {
		t.Error("debate detection should default on")
	}
}

func TestNewBraiderMintsSwarmID(t *testing.T) {
	cfg := config.New()
	b := newBraider(cfg, "")
	if b.SwarmID() == "" {
		t.Error("expected a minted swarm id")
	}

	cfg.Swarm.ID = "pinned"
	if got := newBraider(cfg, "").SwarmID(); got != "pinned" {
		t.Errorf("expected pinned swarm id, got %q", got)
	}
}

func TestLoadMessagesFromArray(t *testing.T) {
	dir, err := os.MkdirTemp("", "weave-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	base := time.Now()
	msgs := []braid.Message{
		{ID: "late", Type: braid.TypeChallenge, Content: "b", Timestamp: base.Add(time.Minute)},
		{ID: "early", Type: braid.TypeAnalysisResult, Content: "a", Timestamp: base},
	}
	data, _ := json.Marshal(msgs)
	path := filepath.Join(dir, "log.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := loadMessages(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(loaded))
	}
	if loaded[0].ID != "early" || loaded[1].ID != "late" {
		t.Errorf("messages not sorted by timestamp: %q, %q", loaded[0].ID, loaded[1].ID)
	}
}

func TestLoadMessagesFromTranscript(t *testing.T) {
	dir, err := os.MkdirTemp("", "weave-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tr := transcript.New("swarm-1", "request")
	tr.Append(transcript.Event{
		Type:    transcript.EventAgentTurn,
		Message: &braid.Message{ID: "m1", Type: braid.TypeAnalysisResult, Content: "finding"},
	})
	path, err := tr.Save(dir)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := loadMessages(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "m1" {
		t.Errorf("transcript messages not extracted: %+v", loaded)
	}
}

func TestLoadMessagesRejectsGarbage(t *testing.T) {
	dir, err := os.MkdirTemp("", "weave-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadMessages(path); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
