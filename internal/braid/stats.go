package braid

import (
	"time"
)

// ThreadSummary is a flat snapshot of one thread for reporting.
type ThreadSummary struct {
	ThreadID     string        `json:"thread_id"`
	Type         BraidType     `json:"thread_type"`
	Status       ThreadStatus  `json:"completion_status"`
	Messages     int           `json:"message_count"`
	Connections  int           `json:"connection_count"`
	Participants []Role        `json:"participants"`
	Coherence    float64       `json:"coherence_score"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Statistics aggregates braiding activity across the instance.
type Statistics struct {
	SwarmID          string              `json:"swarm_id"`
	ActiveThreads    int                 `json:"active_threads"`
	CompletedThreads int                 `json:"completed_threads"`
	TotalMessages    int                 `json:"total_messages"`
	TotalConnections int                 `json:"total_connections"`
	ThreadTypes      map[BraidType]int   `json:"thread_types"`
	MessageTypes     map[MessageType]int `json:"message_types"`
	AverageCoherence float64             `json:"average_coherence"`

	// StrengthHistogram buckets connection strengths at 0.4/0.7/0.9.
	StrengthHistogram map[string]int `json:"strength_histogram"`
}

// ThreadSummary returns a snapshot for a thread id, or nil when the id is
// unknown. It never mutates state.
func (b *Braider) ThreadSummary(threadID string) *ThreadSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.threads.active[threadID]
	if !ok {
		return nil
	}
	return &ThreadSummary{
		ThreadID:     t.ID,
		Type:         t.Type,
		Status:       t.Status,
		Messages:     len(t.Messages),
		Connections:  len(t.Connections),
		Participants: append([]Role(nil), t.Participants...),
		Coherence:    t.Coherence,
		Duration:     t.Duration(),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// Threads returns snapshots of every thread the braider knows about,
// including completed ones.
func (b *Braider) Threads() []Thread {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Thread, 0, len(b.threads.active))
	for _, t := range b.threads.active {
		out = append(out, t.clone())
	}
	return out
}

// Statistics computes aggregate counts. A fresh braider reports zeros and
// empty maps; the call never fails and never mutates state.
func (b *Braider) Statistics() Statistics {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := Statistics{
		SwarmID:           b.swarmID,
		TotalMessages:     len(b.threads.index),
		ThreadTypes:       make(map[BraidType]int),
		MessageTypes:      make(map[MessageType]int),
		StrengthHistogram: make(map[string]int),
	}

	for _, msg := range b.threads.index {
		stats.MessageTypes[msg.Type]++
	}

	var coherenceTotal float64
	for _, t := range b.threads.active {
		switch t.Status {
		case StatusCompleted:
			stats.CompletedThreads++
		case StatusActive:
			stats.ActiveThreads++
		}
		stats.ThreadTypes[t.Type]++
		coherenceTotal += t.Coherence

		for _, c := range t.Connections {
			stats.TotalConnections++
			stats.StrengthHistogram[strengthBucket(c.Strength)]++
		}
	}
	if n := len(b.threads.active); n > 0 {
		stats.AverageCoherence = coherenceTotal / float64(n)
	}
	return stats
}

// strengthBucket maps a connection strength into the 4-bucket histogram.
func strengthBucket(strength float64) string {
	switch {
	case strength < 0.4:
		return "weak"
	case strength < 0.7:
		return "moderate"
	case strength < 0.9:
		return "strong"
	default:
		return "very_strong"
	}
}
