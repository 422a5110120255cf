// Package main provides shared runtime wiring for the CLI commands.
package main

import (
	"fmt"
	"time"

	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/telemetry"

	"github.com/threadloom/braid/internal/braid"
	"github.com/threadloom/braid/internal/config"
)

// loadConfig loads the config file, or braid.toml / defaults when no path
// is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadDefault()
}

// braidConfig maps the file config onto the engine config.
func braidConfig(cfg *config.Config) braid.Config {
	semantic := cfg.Braid.SemanticLinkingEnabled()
	debate := cfg.Braid.DebateDetectionEnabled()
	return braid.Config{
		CoherenceThreshold:    cfg.Braid.CoherenceThreshold,
		TemporalWindow:        cfg.TemporalWindow(),
		MaxThreadLength:       cfg.Braid.MaxThreadLength,
		MinConnectionStrength: cfg.Braid.MinConnectionStrength,
		TopicBlendAlpha:       cfg.Braid.TopicBlendAlpha,
		EnableSemanticLinking: semantic,
		EnableDebateDetection: debate,
	}
}

// newBraider builds a braider from config, minting a swarm id when the
// config does not pin one.
func newBraider(cfg *config.Config, pattern string) *braid.Braider {
	if pattern == "" {
		pattern = cfg.Swarm.Pattern
	}
	swarmID := cfg.Swarm.ID
	if swarmID == "" {
		swarmID = fmt.Sprintf("swarm-%d", time.Now().Unix())
	}
	return braid.NewWithConfig(swarmID, pattern, braidConfig(cfg))
}

// createProvider creates the LLM provider from config.
func createProvider(cfg *config.Config) (llm.Provider, error) {
	llmProvider := cfg.LLM.Provider
	if llmProvider == "" {
		llmProvider = llm.InferProviderFromModel(cfg.LLM.Model)
	}
	if llmProvider == "" && cfg.LLM.Model == "" {
		return nil, fmt.Errorf("LLM model not configured")
	}

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Provider:  llmProvider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.GetAPIKey(),
		MaxTokens: cfg.LLM.MaxTokens,
		BaseURL:   cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return provider, nil
}

// setupTelemetry creates the telemetry exporter. The returned closer must
// be called on exit.
func setupTelemetry(cfg *config.Config) (func(), error) {
	var telem telemetry.Exporter
	var err error
	if cfg.Telemetry.Enabled {
		telem, err = telemetry.NewExporter(cfg.Telemetry.Protocol, cfg.Telemetry.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating telemetry exporter: %w", err)
		}
	} else {
		telem = telemetry.NewNoopExporter()
	}
	return func() { telem.Close() }, nil
}
