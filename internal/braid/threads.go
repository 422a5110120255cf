package braid

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Relevance factor weights for thread matching.
const (
	relevanceParticipant = 0.4
	relevanceTemporalMax = 0.3
	relevanceSemanticMax = 0.4
	relevanceTypeFlow    = 0.2
	relevanceExplicitID  = 0.8

	// relevanceKeep is the minimum total relevance for a thread to be
	// considered a match.
	relevanceKeep = 0.3

	// maxRelevantThreads caps how many threads one message may join.
	maxRelevantThreads = 5

	// idealSpacingSeconds is the pairwise message gap considered ideal
	// when scoring thread coherence.
	idealSpacingSeconds = 300
)

// threadManager owns the active thread set, the message index, and the
// per-message connection graph.
type threadManager struct {
	cfg    Config
	scorer *connectionScorer

	active      map[string]*Thread
	index       map[string]*Message
	connections map[string][]Connection
}

func newThreadManager(cfg Config, scorer *connectionScorer) *threadManager {
	return &threadManager{
		cfg:         cfg,
		scorer:      scorer,
		active:      make(map[string]*Thread),
		index:       make(map[string]*Message),
		connections: make(map[string][]Connection),
	}
}

// indexMessage records a message for lookup. Safe to call twice with the
// same id; the first record wins.
func (m *threadManager) indexMessage(msg *Message) {
	if _, ok := m.index[msg.ID]; ok {
		return
	}
	copied := *msg
	m.index[msg.ID] = &copied
}

func (m *threadManager) knows(messageID string) bool {
	_, ok := m.index[messageID]
	return ok
}

type threadMatch struct {
	thread    *Thread
	relevance float64
}

// findRelevantThreads scores every active thread against the message and
// returns the top matches, strongest first. An empty result signals that
// a new thread should be opened.
func (m *threadManager) findRelevantThreads(msg *Message) []*Thread {
	var matches []threadMatch
	for _, t := range m.active {
		if t.Status != StatusActive {
			continue
		}
		if r := m.threadRelevance(msg, t); r > relevanceKeep {
			matches = append(matches, threadMatch{thread: t, relevance: r})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].relevance != matches[j].relevance {
			return matches[i].relevance > matches[j].relevance
		}
		return matches[i].thread.UpdatedAt.After(matches[j].thread.UpdatedAt)
	})
	if len(matches) > maxRelevantThreads {
		matches = matches[:maxRelevantThreads]
	}

	threads := make([]*Thread, 0, len(matches))
	for _, match := range matches {
		threads = append(threads, match.thread)
	}
	return threads
}

// threadRelevance sums the applicable relevance factors for one thread.
func (m *threadManager) threadRelevance(msg *Message, t *Thread) float64 {
	var score float64

	if t.hasParticipant(msg.SenderRole) || t.hasParticipant(msg.RecipientRole) {
		score += relevanceParticipant
	}

	gap := msg.Timestamp.Sub(t.UpdatedAt)
	if gap < 0 {
		gap = -gap
	}
	if window := m.cfg.TemporalWindow; gap < window {
		score += relevanceTemporalMax * (1 - gap.Seconds()/window.Seconds())
	}

	if m.cfg.EnableSemanticLinking {
		sim := cosineSimilarity(m.scorer.embedding(msg.ID), t.Topic)
		if sim > m.cfg.CoherenceThreshold {
			score += relevanceSemanticMax * sim
		}
	}

	if last := t.lastMessage(); last != nil && typesAdjacent(msg.Type, last.Type) {
		score += relevanceTypeFlow
	}

	if msg.ThreadID != "" && msg.ThreadID == t.ID {
		score += relevanceExplicitID
	}

	return score
}

// determinePattern picks the braid pattern for an incoming message given
// the threads it matched.
func (m *threadManager) determinePattern(msg *Message, relevant []*Thread) BraidType {
	if len(relevant) == 0 {
		return BraidSequential
	}
	if m.cfg.EnableDebateDetection && challengeInPlay(msg, relevant) {
		return BraidDebate
	}
	if containsAgreement(msg.Content) {
		return BraidConsensus
	}
	if len(relevant) == 1 && msg.RecipientRole != "" {
		return BraidSequential
	}
	if len(relevant) > 1 {
		return BraidSemantic
	}
	return BraidSequential
}

// challengeInPlay reports whether the message is a challenge or directly
// answers one at the tip of a matched thread.
func challengeInPlay(msg *Message, relevant []*Thread) bool {
	if msg.Type == TypeChallenge {
		return true
	}
	for _, t := range relevant {
		if last := t.lastMessage(); last != nil && last.Type == TypeChallenge {
			return true
		}
	}
	return false
}

// connectThreads scores the message against each matched thread's latest
// message and materializes connections that clear the minimum-strength
// gate. Each connection is tagged with its owning thread id.
func (m *threadManager) connectThreads(msg *Message, relevant []*Thread, pattern BraidType) []Connection {
	var conns []Connection
	for _, t := range relevant {
		last := t.lastMessage()
		if last == nil || last.ID == msg.ID {
			continue
		}
		strength, semantic, temporal, logical := m.scorer.score(last, msg, pattern)
		if strength <= m.cfg.MinConnectionStrength {
			continue
		}
		conns = append(conns, Connection{
			ID:        uuid.New().String(),
			SourceID:  last.ID,
			TargetID:  msg.ID,
			Type:      pattern,
			Strength:  strength,
			Semantic:  semantic,
			Temporal:  temporal,
			Logical:   logical,
			ThreadID:  t.ID,
			CreatedAt: time.Now(),
		})
	}
	return conns
}

// updateThreads extends each matched thread with the message, or opens a
// new thread when nothing matched. Returns every touched thread.
func (m *threadManager) updateThreads(msg *Message, vec []float32, relevant []*Thread, pattern BraidType, conns []Connection) []*Thread {
	if len(relevant) == 0 {
		t := m.newThread(msg, vec)
		return []*Thread{t}
	}

	var updated []*Thread
	for _, t := range relevant {
		m.extendThread(t, msg, vec, pattern, conns)
		updated = append(updated, t)
	}
	return updated
}

// newThread opens a thread seeded with a single message.
func (m *threadManager) newThread(msg *Message, vec []float32) *Thread {
	id := msg.ThreadID
	if id == "" || m.active[id] != nil {
		id = uuid.New().String()
	}
	t := &Thread{
		ID:        id,
		Type:      BraidSequential,
		Messages:  []Message{*msg},
		Topic:     append([]float32(nil), vec...),
		Coherence: 0.5,
		Status:    StatusActive,
		CreatedAt: msg.Timestamp,
		UpdatedAt: msg.Timestamp,
	}
	t.addParticipant(msg.SenderRole)
	t.addParticipant(msg.RecipientRole)
	m.active[t.ID] = t
	return t
}

// extendThread appends the message, merges this thread's connections,
// reblends the topic vector, and recomputes coherence. Reaching the max
// thread length flips the thread to completed.
func (m *threadManager) extendThread(t *Thread, msg *Message, vec []float32, pattern BraidType, conns []Connection) {
	if t.contains(msg.ID) {
		return
	}

	t.Messages = append(t.Messages, *msg)
	t.addParticipant(msg.SenderRole)
	t.addParticipant(msg.RecipientRole)

	for _, c := range conns {
		if c.ThreadID != t.ID {
			continue
		}
		t.Connections = append(t.Connections, c)
		m.connections[c.TargetID] = append(m.connections[c.TargetID], c)
	}

	// A non-sequential pattern becomes the thread's dominant shape.
	if pattern != BraidSequential {
		t.Type = pattern
	}

	if msg.Timestamp.After(t.UpdatedAt) {
		t.UpdatedAt = msg.Timestamp
	}

	t.Topic = m.blendTopic(t.Topic, vec)
	t.Coherence = m.threadCoherence(t)

	if t.Status == StatusActive && len(t.Messages) >= m.cfg.MaxThreadLength {
		t.Status = StatusCompleted
	}
}

// blendTopic folds a new message vector into the running topic embedding,
// keeping TopicBlendAlpha weight on history so topic drift is gradual.
func (m *threadManager) blendTopic(topic, vec []float32) []float32 {
	if len(vec) == 0 {
		return topic
	}
	if len(topic) != len(vec) {
		return append([]float32(nil), vec...)
	}
	alpha := float32(m.cfg.TopicBlendAlpha)
	blended := make([]float32, len(topic))
	for i := range topic {
		blended[i] = alpha*topic[i] + (1-alpha)*vec[i]
	}
	return blended
}

// threadCoherence averages the computable quality sub-scores over the
// thread's consecutive message pairs: topical similarity, spacing against
// the ideal gap, and type-flow adjacency. Threads with fewer than two
// messages sit at the neutral 0.5.
func (m *threadManager) threadCoherence(t *Thread) float64 {
	if len(t.Messages) < 2 {
		return 0.5
	}

	pairs := len(t.Messages) - 1
	var parts []float64

	if m.cfg.EnableSemanticLinking {
		var total float64
		for i := 0; i < pairs; i++ {
			total += m.scorer.similarity(t.Messages[i].ID, t.Messages[i+1].ID)
		}
		parts = append(parts, total/float64(pairs))
	}

	var spacing float64
	for i := 0; i < pairs; i++ {
		gap := t.Messages[i+1].Timestamp.Sub(t.Messages[i].Timestamp).Seconds()
		if gap < 1 {
			gap = 1
		}
		score := idealSpacingSeconds / gap
		if score > 1 {
			score = 1
		}
		spacing += score
	}
	parts = append(parts, spacing/float64(pairs))

	var adjacent float64
	for i := 0; i < pairs; i++ {
		if typesAdjacent(t.Messages[i].Type, t.Messages[i+1].Type) {
			adjacent++
		}
	}
	parts = append(parts, adjacent/float64(pairs))

	var total float64
	for _, p := range parts {
		total += p
	}
	return clamp01(total / float64(len(parts)))
}
