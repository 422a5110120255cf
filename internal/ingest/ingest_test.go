package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/threadloom/braid/internal/braid"
)

func TestNewBridgeDefaultsURL(t *testing.T) {
	b := NewBridge("", "braid.messages", braid.New("s", "sequential"))
	if b.url != nats.DefaultURL {
		t.Errorf("expected default NATS URL, got %q", b.url)
	}
}

func TestHandleBraidsValidMessage(t *testing.T) {
	br := braid.New("swarm-bus", "sequential")
	b := NewBridge("", "braid.messages", br)

	msg := braid.Message{
		ID:         "bus-1",
		SenderRole: braid.RoleAnalyst,
		Type:       braid.TypeAnalysisResult,
		Content:    "throughput dropped after the deploy",
		Timestamp:  time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	b.handle(&nats.Msg{Subject: "braid.messages", Data: data})

	stats := br.Statistics()
	if stats.TotalMessages != 1 {
		t.Errorf("expected 1 braided message, got %d", stats.TotalMessages)
	}
	if stats.ActiveThreads != 1 {
		t.Errorf("expected 1 thread, got %d", stats.ActiveThreads)
	}
}

func TestHandleDropsMalformedPayload(t *testing.T) {
	br := braid.New("swarm-bus", "sequential")
	b := NewBridge("", "braid.messages", br)

	b.handle(&nats.Msg{Subject: "braid.messages", Data: []byte("{not json")})

	if stats := br.Statistics(); stats.TotalMessages != 0 {
		t.Errorf("malformed payload should not be braided, got %d messages", stats.TotalMessages)
	}
}

func TestHandleIsIdempotentPerMessageID(t *testing.T) {
	br := braid.New("swarm-bus", "sequential")
	b := NewBridge("", "braid.messages", br)

	msg := braid.Message{
		ID:         "bus-dup",
		SenderRole: braid.RoleAnalyst,
		Type:       braid.TypeAnalysisResult,
		Content:    "duplicate delivery from the bus",
		Timestamp:  time.Now(),
	}
	data, _ := json.Marshal(msg)

	b.handle(&nats.Msg{Subject: "braid.messages", Data: data})
	b.handle(&nats.Msg{Subject: "braid.messages", Data: data})

	if stats := br.Statistics(); stats.TotalMessages != 1 {
		t.Errorf("redelivery must not double-count, got %d messages", stats.TotalMessages)
	}
}
