package braid

import "time"

// Config tunes a Braider. All fields have working defaults; see
// DefaultConfig.
type Config struct {
	// CoherenceThreshold is the minimum topic similarity for the semantic
	// relevance factor to apply when matching threads.
	CoherenceThreshold float64

	// TemporalWindow bounds how stale a thread may be and still collect a
	// temporal relevance bonus.
	TemporalWindow time.Duration

	// MaxThreadLength is the message count at which a thread completes.
	MaxThreadLength int

	// MinConnectionStrength is the hard gate below which no connection is
	// ever materialized.
	MinConnectionStrength float64

	// TopicBlendAlpha is the weight of a thread's existing topic vector
	// when a new message is blended in. 0.7 keeps topic drift gradual.
	TopicBlendAlpha float64

	// TemporalDecay is the window over which connection-level temporal
	// proximity decays to zero.
	TemporalDecay time.Duration

	// EnableSemanticLinking toggles embedding-based relevance and
	// coherence factors.
	EnableSemanticLinking bool

	// EnableDebateDetection toggles the debate pattern.
	EnableDebateDetection bool

	// Embedder overrides the default hash embedder when non-nil.
	Embedder Embedder

	// EmbeddingDim is the hash embedder's dimension when no Embedder is
	// supplied.
	EmbeddingDim int
}

// DefaultConfig returns the braiding defaults.
func DefaultConfig() Config {
	return Config{
		CoherenceThreshold:    0.7,
		TemporalWindow:        30 * time.Second,
		MaxThreadLength:       20,
		MinConnectionStrength: 0.2,
		TopicBlendAlpha:       0.7,
		TemporalDecay:         time.Hour,
		EnableSemanticLinking: true,
		EnableDebateDetection: true,
		EmbeddingDim:          DefaultEmbeddingDim,
	}
}

// withDefaults fills zero-valued numeric fields. Boolean toggles are taken
// as-is; start from DefaultConfig to get them enabled.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CoherenceThreshold == 0 {
		c.CoherenceThreshold = def.CoherenceThreshold
	}
	if c.TemporalWindow == 0 {
		c.TemporalWindow = def.TemporalWindow
	}
	if c.MaxThreadLength == 0 {
		c.MaxThreadLength = def.MaxThreadLength
	}
	if c.MinConnectionStrength == 0 {
		c.MinConnectionStrength = def.MinConnectionStrength
	}
	if c.TopicBlendAlpha == 0 {
		c.TopicBlendAlpha = def.TopicBlendAlpha
	}
	if c.TemporalDecay == 0 {
		c.TemporalDecay = def.TemporalDecay
	}
	if c.EmbeddingDim == 0 {
		c.EmbeddingDim = def.EmbeddingDim
	}
	if c.Embedder == nil {
		c.Embedder = NewHashEmbedder(c.EmbeddingDim)
	}
	return c
}
