// Package transcript records swarm runs as an append-only event log so a
// run can be inspected or re-braided offline.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/threadloom/braid/internal/braid"
)

// Event types for the transcript log.
const (
	EventRequest   = "request"    // the inbound request that started the run
	EventAgentTurn = "agent_turn" // one persona's reply
	EventBraid     = "braid"      // braiding outcome for a message
	EventFollowUp  = "follow_up"  // a suggested-response turn
	EventSynthesis = "synthesis"  // the merged final output
)

// Event is a single entry in the transcript.
type Event struct {
	SeqID     uint64    `json:"seq"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Agent context
	Persona string `json:"persona,omitempty"`

	// Content - either a braided message or free text
	Message *braid.Message `json:"message,omitempty"`
	Content string         `json:"content,omitempty"`

	// Braid outcome (for braid events)
	AssignedThreads []string `json:"assigned_threads,omitempty"`
	Connections     int      `json:"connections,omitempty"`
	Confidence      float64  `json:"confidence,omitempty"`
}

// Transcript is one swarm run's event log.
type Transcript struct {
	ID        string    `json:"id"`
	SwarmID   string    `json:"swarm_id"`
	Request   string    `json:"request"`
	Events    []Event   `json:"events"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	seqCounter uint64
	mu         sync.Mutex
}

// New creates a transcript for a swarm run.
func New(swarmID, request string) *Transcript {
	now := time.Now()
	t := &Transcript{
		ID:        uuid.New().String(),
		SwarmID:   swarmID,
		Request:   request,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Append(Event{Type: EventRequest, Content: request})
	return t
}

// Append records an event, assigning its sequence number and timestamp
// when unset.
func (t *Transcript) Append(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ev.SeqID = atomic.AddUint64(&t.seqCounter, 1)
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	t.Events = append(t.Events, ev)
	t.UpdatedAt = ev.Timestamp
}

// Messages extracts the braided messages in arrival order, for offline
// re-braiding.
func (t *Transcript) Messages() []braid.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	var msgs []braid.Message
	for _, ev := range t.Events {
		if ev.Message != nil {
			msgs = append(msgs, *ev.Message)
		}
	}
	return msgs
}

// Save writes the transcript to dir as braid-<id>.json and returns the
// path.
func (t *Transcript) Save(dir string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create transcript dir: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	path := filepath.Join(dir, "braid-"+t.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

// Load reads a transcript from a file.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	t.seqCounter = uint64(len(t.Events))
	return &t, nil
}
