// Package braid threads related agent messages into conversation threads.
// A Braider instance owns all braiding state for one swarm run: it scores
// connections between messages, assigns messages to threads, and tracks a
// running coherence score per thread.
package braid

import (
	"time"
)

// Role identifies the functional position of a message's author within a
// swarm. The vocabulary is closed; the braider only compares roles, it
// never interprets them.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleAnalyst     Role = "analyst"
	RoleStrategist  Role = "strategist"
	RoleValidator   Role = "validator"
	RoleSynthesizer Role = "synthesizer"
)

// MessageType tags the conversational act a message performs.
type MessageType string

const (
	TypeTaskAssignment MessageType = "task_assignment"
	TypeAnalysisResult MessageType = "analysis_result"
	TypeChallenge      MessageType = "challenge"
	TypeValidation     MessageType = "validation"
	TypeSynthesis      MessageType = "synthesis"
	TypeFinalOutput    MessageType = "final_output"
)

// follows returns the message type that naturally succeeds t in a
// conversation, or "" when t terminates the flow. Adding a new type forces
// this switch to be revisited.
func follows(t MessageType) MessageType {
	switch t {
	case TypeTaskAssignment:
		return TypeAnalysisResult
	case TypeAnalysisResult:
		return TypeChallenge
	case TypeChallenge:
		return TypeValidation
	case TypeValidation:
		return TypeSynthesis
	case TypeSynthesis:
		return TypeFinalOutput
	case TypeFinalOutput:
		return ""
	}
	return ""
}

// typesAdjacent reports whether two message types are neighbors in the
// conversational flow, in either direction.
func typesAdjacent(a, b MessageType) bool {
	if a == "" || b == "" {
		return false
	}
	return follows(a) == b || follows(b) == a
}

// BraidType is the conversational shape of a thread or connection.
type BraidType string

const (
	BraidSequential   BraidType = "sequential"
	BraidParallel     BraidType = "parallel"
	BraidDebate       BraidType = "debate"
	BraidConsensus    BraidType = "consensus"
	BraidHierarchical BraidType = "hierarchical"
	BraidSemantic     BraidType = "semantic"
	BraidTemporal     BraidType = "temporal"
)

// ParseBraidType maps a pattern string to a BraidType, falling back to
// sequential for anything unrecognized.
func ParseBraidType(s string) BraidType {
	switch BraidType(s) {
	case BraidParallel, BraidDebate, BraidConsensus, BraidHierarchical, BraidSemantic, BraidTemporal:
		return BraidType(s)
	}
	return BraidSequential
}

// ThreadStatus is a thread's lifecycle state.
type ThreadStatus string

const (
	StatusActive    ThreadStatus = "active"
	StatusCompleted ThreadStatus = "completed"
	StatusAbandoned ThreadStatus = "abandoned"
)

// Message is one agent utterance. Once a message has been processed its
// identity and content are never mutated by the braider.
type Message struct {
	ID            string      `json:"id"`
	SenderRole    Role        `json:"sender_role,omitempty"`
	RecipientRole Role        `json:"recipient_role,omitempty"`
	Type          MessageType `json:"type"`
	Content       string      `json:"content"`
	Confidence    float64     `json:"confidence"`
	Reasoning     string      `json:"reasoning,omitempty"`
	Citations     []string    `json:"citations,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`

	// ThreadID is an optional caller hint. When it matches an active
	// thread's id that thread is treated as a near-certain match.
	ThreadID string `json:"thread_id,omitempty"`
}

// Connection is a scored, directed link from a prior thread message to a
// newly processed message. The component sub-scores are retained so a
// caller can explain why two messages were linked.
type Connection struct {
	ID        string    `json:"id"`
	SourceID  string    `json:"source_message_id"`
	TargetID  string    `json:"target_message_id"`
	Type      BraidType `json:"connection_type"`
	Strength  float64   `json:"strength"`
	Semantic  float64   `json:"semantic_similarity"`
	Temporal  float64   `json:"temporal_proximity"`
	Logical   float64   `json:"logical_dependency"`
	ThreadID  string    `json:"thread_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread is an ordered, growing collection of related messages.
type Thread struct {
	ID           string       `json:"thread_id"`
	Type         BraidType    `json:"thread_type"`
	Messages     []Message    `json:"messages"`
	Connections  []Connection `json:"connections"`
	Participants []Role       `json:"participants"`
	Topic        []float32    `json:"topic_embedding,omitempty"`
	Coherence    float64      `json:"coherence_score"`
	Status       ThreadStatus `json:"completion_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// hasParticipant reports whether role has appeared in the thread.
func (t *Thread) hasParticipant(role Role) bool {
	if role == "" {
		return false
	}
	for _, p := range t.Participants {
		if p == role {
			return true
		}
	}
	return false
}

// addParticipant records a role, ignoring empty roles and duplicates.
func (t *Thread) addParticipant(role Role) {
	if role == "" || t.hasParticipant(role) {
		return
	}
	t.Participants = append(t.Participants, role)
}

// lastMessage returns the most recently appended message, or nil for an
// empty thread.
func (t *Thread) lastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// contains reports whether a message id is already part of the thread.
func (t *Thread) contains(messageID string) bool {
	for i := range t.Messages {
		if t.Messages[i].ID == messageID {
			return true
		}
	}
	return false
}

// Duration is the time span between the thread's first and latest message.
func (t *Thread) Duration() time.Duration {
	return t.UpdatedAt.Sub(t.CreatedAt)
}

// clone returns a deep copy safe to hand to callers.
func (t *Thread) clone() Thread {
	out := *t
	out.Messages = append([]Message(nil), t.Messages...)
	out.Connections = append([]Connection(nil), t.Connections...)
	out.Participants = append([]Role(nil), t.Participants...)
	out.Topic = append([]float32(nil), t.Topic...)
	return out
}

// ResponseHint suggests a follow-up contribution to the caller. Priority
// is an advisory ordering value, not a guarantee.
type ResponseHint struct {
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	Priority       float64 `json:"priority"`
	SuggestedRoles []Role  `json:"suggested_roles,omitempty"`
}

// BraidingResult is the outcome of processing one message.
type BraidingResult struct {
	MessageID          string         `json:"message_id"`
	AssignedThreads    []string       `json:"assigned_threads"`
	NewConnections     []Connection   `json:"new_connections"`
	ThreadUpdates      []Thread       `json:"thread_updates"`
	Confidence         float64        `json:"braiding_confidence"`
	Reasoning          string         `json:"reasoning"`
	SuggestedResponses []ResponseHint `json:"suggested_responses,omitempty"`
}

// clone returns a deep copy so cached results stay immutable.
func (r *BraidingResult) clone() BraidingResult {
	out := *r
	out.AssignedThreads = append([]string(nil), r.AssignedThreads...)
	out.NewConnections = append([]Connection(nil), r.NewConnections...)
	out.SuggestedResponses = append([]ResponseHint(nil), r.SuggestedResponses...)
	out.ThreadUpdates = make([]Thread, 0, len(r.ThreadUpdates))
	for i := range r.ThreadUpdates {
		out.ThreadUpdates = append(out.ThreadUpdates, r.ThreadUpdates[i].clone())
	}
	return out
}
