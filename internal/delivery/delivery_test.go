package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookDeliverPostsJSON(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := Summary{
		SwarmID:     "swarm-1",
		Request:     "evaluate plan",
		Synthesis:   "ship it",
		Turns:       4,
		Threads:     2,
		Connections: 3,
		Coherence:   0.81,
	}

	if err := NewWebhook(srv.URL).Deliver(context.Background(), s); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}

	var payload struct {
		Text    string  `json:"text"`
		Summary Summary `json:"summary"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload.Summary.SwarmID != "swarm-1" {
		t.Errorf("summary swarm id lost: %q", payload.Summary.SwarmID)
	}
	if !strings.Contains(payload.Text, "ship it") {
		t.Errorf("text should contain the synthesis, got %q", payload.Text)
	}
	if !strings.Contains(payload.Text, "4 turns") {
		t.Errorf("text should mention turn count, got %q", payload.Text)
	}
}

func TestWebhookDeliverNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel archived", http.StatusGone)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Deliver(context.Background(), Summary{SwarmID: "s"})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "410") {
		t.Errorf("error should carry status code, got %v", err)
	}
}

func TestWebhookDeliverRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewWebhook(srv.URL).Deliver(ctx, Summary{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNoopDeliver(t *testing.T) {
	if err := (Noop{}).Deliver(context.Background(), Summary{}); err != nil {
		t.Fatalf("noop should never fail: %v", err)
	}
}
