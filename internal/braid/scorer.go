package braid

import (
	"strings"
)

// Sub-score weights for the composite connection strength. These are
// policy, not contract: strength stays monotonically non-decreasing in
// each sub-score and is zero when everything is zero.
const (
	weightTemporal = 0.3
	weightSemantic = 0.4
	weightLogical  = 0.3

	roleReplyBonus   = 0.3
	patternBonusStep = 0.2
)

// backrefWords mark a message that refers to an earlier one.
var backrefWords = []string{"previous", "above", "earlier"}

// agreementWords mark consensus-seeking language.
var agreementWords = []string{"agree", "consensus", "aligned", "concur"}

// connectionScorer computes pairwise connection strength. It owns the
// per-message embedding index and the pair similarity cache, both scoped
// to the lifetime of the owning braider.
type connectionScorer struct {
	cfg        Config
	embeddings map[string][]float32
	simCache   map[simKey]float64
}

type simKey struct {
	a, b string
}

func newConnectionScorer(cfg Config) *connectionScorer {
	return &connectionScorer{
		cfg:        cfg,
		embeddings: make(map[string][]float32),
		simCache:   make(map[simKey]float64),
	}
}

// setEmbedding indexes a message's vector for later similarity lookups.
func (s *connectionScorer) setEmbedding(messageID string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	s.embeddings[messageID] = vec
}

func (s *connectionScorer) embedding(messageID string) []float32 {
	return s.embeddings[messageID]
}

// similarity returns the cached cosine similarity for a message pair,
// computing and caching it on first use. Unknown messages score 0.
func (s *connectionScorer) similarity(aID, bID string) float64 {
	if aID == bID {
		if len(s.embeddings[aID]) == 0 {
			return 0
		}
		return 1
	}
	key := simKey{aID, bID}
	if aID > bID {
		key = simKey{bID, aID}
	}
	if sim, ok := s.simCache[key]; ok {
		return sim
	}
	sim := cosineSimilarity(s.embeddings[aID], s.embeddings[bID])
	s.simCache[key] = sim
	return sim
}

// score computes the composite connection strength between two messages
// under the given braid pattern, returning the composite plus the
// semantic, temporal, and logical sub-scores.
func (s *connectionScorer) score(a, b *Message, pattern BraidType) (strength, semantic, temporal, logical float64) {
	temporal = s.temporalProximity(a, b)
	if s.cfg.EnableSemanticLinking {
		semantic = s.similarity(a.ID, b.ID)
	}
	logical = logicalDependency(a, b)

	strength = weightTemporal*temporal + weightSemantic*semantic + weightLogical*logical
	if directReplyPair(a, b) {
		strength += roleReplyBonus
	}
	strength += patternBonus(a, b, pattern)

	strength = clamp01(strength)
	return strength, semantic, temporal, logical
}

// temporalProximity decays linearly from 1 to 0 over the decay window.
func (s *connectionScorer) temporalProximity(a, b *Message) float64 {
	gap := a.Timestamp.Sub(b.Timestamp)
	if gap < 0 {
		gap = -gap
	}
	prox := 1 - gap.Seconds()/s.cfg.TemporalDecay.Seconds()
	if prox < 0 {
		return 0
	}
	return prox
}

// logicalDependency applies the type-pair rule table plus a backreference
// bonus, capped at 1.
func logicalDependency(a, b *Message) float64 {
	var dep float64
	switch {
	case typePair(a, b, TypeChallenge, TypeValidation):
		dep = 0.5
	case typePair(a, b, TypeAnalysisResult, TypeSynthesis):
		dep = 0.4
	}
	if references(a, b) || references(b, a) {
		dep += 0.3
	}
	if dep > 1 {
		dep = 1
	}
	return dep
}

// typePair reports whether the two messages carry types x and y in either
// order.
func typePair(a, b *Message, x, y MessageType) bool {
	return (a.Type == x && b.Type == y) || (a.Type == y && b.Type == x)
}

// references reports whether msg's text points back at other, either by
// quoting its id or by using a backreference word.
func references(msg, other *Message) bool {
	content := strings.ToLower(msg.Content)
	if other.ID != "" && strings.Contains(content, strings.ToLower(other.ID)) {
		return true
	}
	for _, w := range backrefWords {
		if strings.Contains(content, w) {
			return true
		}
	}
	return false
}

// directReplyPair reports whether the two messages' roles form a direct
// reply (one's sender is the other's recipient).
func directReplyPair(a, b *Message) bool {
	if a.SenderRole != "" && a.SenderRole == b.RecipientRole {
		return true
	}
	if b.SenderRole != "" && b.SenderRole == a.RecipientRole {
		return true
	}
	return false
}

// patternBonus rewards pairs that fit the active braid pattern.
func patternBonus(a, b *Message, pattern BraidType) float64 {
	switch pattern {
	case BraidDebate:
		if a.Type == TypeChallenge || b.Type == TypeChallenge {
			return patternBonusStep
		}
	case BraidConsensus:
		if containsAgreement(a.Content) || containsAgreement(b.Content) {
			return patternBonusStep
		}
	}
	return 0
}

// containsAgreement reports whether text carries consensus-seeking
// language.
func containsAgreement(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range agreementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
