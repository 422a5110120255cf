// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the braid runtime configuration.
type Config struct {
	Swarm     SwarmConfig     `toml:"swarm"`
	LLM       LLMConfig       `toml:"llm"`
	Braid     BraidConfig     `toml:"braid"`
	Roster    RosterConfig    `toml:"roster"`
	Delivery  DeliveryConfig  `toml:"delivery"`
	Ingest    IngestConfig    `toml:"ingest"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// SwarmConfig identifies a swarm run and its default coordination shape.
type SwarmConfig struct {
	ID      string `toml:"id"`
	Pattern string `toml:"pattern"` // sequential|parallel|debate|consensus|hierarchical|semantic|temporal

	// MaxFollowUps bounds how many suggested-response turns the
	// coordinator will play per run.
	MaxFollowUps int `toml:"max_follow_ups"`

	// Transcript is the directory where run transcripts are written.
	// Empty disables transcript recording.
	Transcript string `toml:"transcript"`
}

// LLMConfig contains LLM provider settings.
type LLMConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env"`
	MaxTokens int    `toml:"max_tokens"`
	BaseURL   string `toml:"base_url"` // Custom API endpoint (OpenRouter, LiteLLM, Ollama)
}

// BraidConfig tunes the message braiding engine.
type BraidConfig struct {
	CoherenceThreshold    float64 `toml:"coherence_threshold"`
	TemporalWindowMS      int     `toml:"temporal_window_ms"`
	MaxThreadLength       int     `toml:"max_thread_length"`
	MinConnectionStrength float64 `toml:"min_connection_strength"`
	TopicBlendAlpha       float64 `toml:"topic_blend_alpha"`
	SemanticLinking       *bool   `toml:"semantic_linking"`
	DebateDetection       *bool   `toml:"debate_detection"`
}

// SemanticLinkingEnabled resolves the optional toggle, defaulting to on.
func (b BraidConfig) SemanticLinkingEnabled() bool {
	return b.SemanticLinking == nil || *b.SemanticLinking
}

// DebateDetectionEnabled resolves the optional toggle, defaulting to on.
func (b BraidConfig) DebateDetectionEnabled() bool {
	return b.DebateDetection == nil || *b.DebateDetection
}

// RosterConfig locates agent personas.
type RosterConfig struct {
	Path  string `toml:"path"`  // directory of persona files
	Watch bool   `toml:"watch"` // reload personas when files change
}

// DeliveryConfig configures chat delivery of swarm results.
type DeliveryConfig struct {
	Enabled       bool   `toml:"enabled"`
	WebhookURLEnv string `toml:"webhook_url_env"` // env var holding the incoming-webhook URL
	Channel       string `toml:"channel"`
}

// IngestConfig configures the NATS message bridge.
type IngestConfig struct {
	URL     string `toml:"url"`     // NATS server URL
	Subject string `toml:"subject"` // subject to subscribe for inbound messages
}

// TelemetryConfig contains telemetry settings.
type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"` // OTLP endpoint (e.g., localhost:4317)
	Protocol string `toml:"protocol"` // grpc (default) or http
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		Swarm: SwarmConfig{
			Pattern:      "sequential",
			MaxFollowUps: 2,
		},
		LLM: LLMConfig{
			MaxTokens: 4096,
		},
		Braid: BraidConfig{
			CoherenceThreshold:    0.7,
			TemporalWindowMS:      30000,
			MaxThreadLength:       20,
			MinConnectionStrength: 0.2,
			TopicBlendAlpha:       0.7,
		},
		Roster: RosterConfig{
			Path: "personas",
		},
		Ingest: IngestConfig{
			Subject: "braid.messages",
		},
		Telemetry: TelemetryConfig{
			Protocol: "grpc",
		},
	}
}

// LoadFile loads configuration from a TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from braid.toml in the current
// directory, falling back to defaults when the file does not exist.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(cwd, "braid.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// GetAPIKey returns the API key from the configured environment variable.
// If api_key_env is not set, uses the default env var for the provider.
func (c *Config) GetAPIKey() string {
	envVar := c.LLM.APIKeyEnv
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(c.LLM.Provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the default environment variable name for a provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "google":
		return "GOOGLE_API_KEY"
	case "mistral":
		return "MISTRAL_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	default:
		return ""
	}
}

// GetWebhookURL returns the delivery webhook URL from the configured
// environment variable.
func (c *Config) GetWebhookURL() string {
	if c.Delivery.WebhookURLEnv == "" {
		return ""
	}
	return os.Getenv(c.Delivery.WebhookURLEnv)
}

// TemporalWindow returns the braid temporal window as a duration.
func (c *Config) TemporalWindow() time.Duration {
	return time.Duration(c.Braid.TemporalWindowMS) * time.Millisecond
}
