package braid

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Braider links incoming messages to prior related messages and assigns
// them to conversation threads. One Braider serves one logical swarm run;
// concurrent swarms each get their own instance. Writes are serialized by
// an internal mutex so read-only accessors (ThreadSummary, Statistics)
// can run while braiding continues.
type Braider struct {
	mu sync.RWMutex

	swarmID        string
	defaultPattern BraidType
	cfg            Config
	embedder       Embedder
	scorer         *connectionScorer
	threads        *threadManager

	// results caches the outcome per message id so reprocessing a message
	// (an upstream retry) cannot duplicate it in any thread.
	results map[string]*BraidingResult
}

// New creates a Braider for a swarm with the default configuration. The
// pattern string is the swarm's default coordination pattern; anything
// unrecognized falls back to sequential.
func New(swarmID, pattern string) *Braider {
	return NewWithConfig(swarmID, pattern, DefaultConfig())
}

// NewWithConfig creates a Braider with explicit tuning.
func NewWithConfig(swarmID, pattern string, cfg Config) *Braider {
	cfg = cfg.withDefaults()
	scorer := newConnectionScorer(cfg)
	return &Braider{
		swarmID:        swarmID,
		defaultPattern: ParseBraidType(pattern),
		cfg:            cfg,
		embedder:       cfg.Embedder,
		scorer:         scorer,
		threads:        newThreadManager(cfg, scorer),
		results:        make(map[string]*BraidingResult),
	}
}

// SwarmID returns the swarm this braider serves.
func (b *Braider) SwarmID() string {
	return b.swarmID
}

// ProcessMessage braids one message: finds relevant threads, materializes
// connections, extends or opens threads, and returns the full outcome.
// It never panics and never fails the caller; an internal error degrades
// to an empty result with the failure recorded in Reasoning. Processing
// the same message id twice returns the cached first result.
func (b *Braider) ProcessMessage(ctx context.Context, msg Message) (result BraidingResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			result = BraidingResult{
				MessageID: msg.ID,
				Reasoning: fmt.Sprintf("braiding failed: %v", r),
			}
		}
	}()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if cached, ok := b.results[msg.ID]; ok {
		return cached.clone()
	}

	b.threads.indexMessage(&msg)

	var trace []string
	features := analyzeMessage(&msg)
	trace = append(trace, features.describe())

	if b.cfg.EnableSemanticLinking {
		vec, err := b.embedder.Embed(ctx, msg.Content)
		if err != nil {
			trace = append(trace, fmt.Sprintf("embedding unavailable: %v", err))
		} else {
			b.scorer.setEmbedding(msg.ID, vec)
		}
	}
	vec := b.scorer.embedding(msg.ID)

	relevant := b.threads.findRelevantThreads(&msg)
	pattern := b.threads.determinePattern(&msg, relevant)
	if len(relevant) == 0 {
		trace = append(trace, "no matching threads, opening a new one")
	} else {
		trace = append(trace, fmt.Sprintf("matched %d thread(s), pattern %s", len(relevant), pattern))
	}

	conns := b.threads.connectThreads(&msg, relevant, pattern)
	updated := b.threads.updateThreads(&msg, vec, relevant, pattern, conns)
	confidence := b.braidingConfidence(&msg, conns, relevant)
	hints := suggestResponses(&msg, updated)

	result = BraidingResult{
		MessageID:          msg.ID,
		NewConnections:     conns,
		Confidence:         confidence,
		Reasoning:          strings.Join(trace, "; "),
		SuggestedResponses: hints,
	}
	for _, t := range updated {
		result.AssignedThreads = append(result.AssignedThreads, t.ID)
		result.ThreadUpdates = append(result.ThreadUpdates, t.clone())
	}

	cached := result.clone()
	b.results[msg.ID] = &cached
	return result
}

// braidingConfidence blends connection strength, matched-thread
// coherence, and message self-signals into a [0,1] confidence for the
// braiding decision itself. Isolated messages sit at a low but nonzero
// floor.
func (b *Braider) braidingConfidence(msg *Message, conns []Connection, relevant []*Thread) float64 {
	confidence := 0.2
	if len(conns) > 0 {
		var total float64
		for _, c := range conns {
			total += c.Strength
		}
		confidence = 0.4 * (total / float64(len(conns)))
	}

	if len(relevant) > 0 {
		var total float64
		for _, t := range relevant {
			total += t.Coherence
		}
		confidence += 0.3 * (total / float64(len(relevant)))
	}

	if msg.Confidence > 0.8 {
		confidence += 0.2
	}
	if msg.Reasoning != "" {
		confidence += 0.1
	}
	return clamp01(confidence)
}

// suggestResponses derives follow-up hints from the message and its
// touched threads.
func suggestResponses(msg *Message, updated []*Thread) []ResponseHint {
	var hints []ResponseHint
	seen := make(map[string]bool)
	add := func(h ResponseHint) {
		if seen[h.Type] {
			return
		}
		seen[h.Type] = true
		hints = append(hints, h)
	}

	for _, t := range updated {
		switch t.Type {
		case BraidDebate:
			add(ResponseHint{
				Type:           "challenge_response",
				Description:    "an open challenge in this thread invites a rebuttal or validation",
				Priority:       0.8,
				SuggestedRoles: rolesExcept(t.Participants, msg.SenderRole),
			})
		case BraidConsensus:
			add(ResponseHint{
				Type:           "consensus_contribution",
				Description:    "the thread is converging; contribute agreement or a remaining objection",
				Priority:       0.7,
				SuggestedRoles: rolesExcept(t.Participants, msg.SenderRole),
			})
		}
	}

	if msg.Type == TypeAnalysisResult {
		add(ResponseHint{
			Type:           "strategic_synthesis",
			Description:    "fresh analysis is available and ready to be folded into a synthesis",
			Priority:       0.9,
			SuggestedRoles: []Role{RoleStrategist, RoleSynthesizer},
		})
	}
	return hints
}

// rolesExcept returns roles minus one excluded role.
func rolesExcept(roles []Role, exclude Role) []Role {
	var out []Role
	for _, r := range roles {
		if r != exclude {
			out = append(out, r)
		}
	}
	return out
}

// messageFeatures are the lightweight text signals extracted per message.
type messageFeatures struct {
	isQuestion  bool
	isChallenge bool
	isAgreement bool
}

func analyzeMessage(msg *Message) messageFeatures {
	lower := strings.ToLower(msg.Content)
	return messageFeatures{
		isQuestion:  strings.Contains(lower, "?"),
		isChallenge: msg.Type == TypeChallenge || strings.Contains(lower, "disagree") || strings.Contains(lower, "challenge"),
		isAgreement: containsAgreement(lower),
	}
}

func (f messageFeatures) describe() string {
	var tags []string
	if f.isQuestion {
		tags = append(tags, "question")
	}
	if f.isChallenge {
		tags = append(tags, "challenge")
	}
	if f.isAgreement {
		tags = append(tags, "agreement")
	}
	if len(tags) == 0 {
		return "analyzed: statement"
	}
	return "analyzed: " + strings.Join(tags, ", ")
}
