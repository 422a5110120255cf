// Package main implements the run command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/threadloom/braid/internal/config"
	"github.com/threadloom/braid/internal/delivery"
	"github.com/threadloom/braid/internal/render"
	"github.com/threadloom/braid/internal/roster"
	"github.com/threadloom/braid/internal/swarm"
)

// Run executes a swarm on the request and prints the braided outcome.
func (r *RunCmd) Run() error {
	cfg, err := loadConfig(r.Config)
	if err != nil {
		return err
	}

	closeTelemetry, err := setupTelemetry(cfg)
	if err != nil {
		return err
	}
	defer closeTelemetry()

	rosterDir := cfg.Roster.Path
	if r.Roster != "" {
		rosterDir = r.Roster
	}
	personas, err := roster.Discover(rosterDir)
	if err != nil {
		return fmt.Errorf("discovering personas: %w", err)
	}
	if len(personas) == 0 {
		return fmt.Errorf("no personas found in %s", rosterDir)
	}

	provider, err := createProvider(cfg)
	if err != nil {
		return err
	}

	followUps := cfg.Swarm.MaxFollowUps
	if r.FollowUps >= 0 {
		followUps = r.FollowUps
	}

	braider := newBraider(cfg, r.Pattern)
	coord := swarm.NewCoordinator(personas, provider, braider, followUps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := coord.Run(ctx, r.Request)
	if err != nil {
		return err
	}

	transcriptDir := cfg.Swarm.Transcript
	if r.Transcript != "" {
		transcriptDir = r.Transcript
	}
	if transcriptDir != "" {
		path, err := out.Transcript.Save(transcriptDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else if !r.Quiet {
			fmt.Fprintf(os.Stderr, "transcript: %s\n", path)
		}
	}

	if r.Quiet {
		fmt.Println(out.Synthesis)
	} else {
		for _, result := range out.Results {
			render.PrintResult(os.Stdout, result)
			fmt.Println()
		}
		render.PrintStatistics(os.Stdout, out.Statistics)
		fmt.Println(out.Synthesis)
	}

	if r.Deliver {
		return deliverSummary(ctx, cfg, out)
	}
	return nil
}

// deliverSummary posts the run summary to the configured webhook.
func deliverSummary(ctx context.Context, cfg *config.Config, out *swarm.Outcome) error {
	url := cfg.GetWebhookURL()

	var d delivery.Deliverer = delivery.Noop{}
	if url != "" {
		d = delivery.NewWebhook(url)
	}

	stats := out.Statistics
	return d.Deliver(ctx, delivery.Summary{
		SwarmID:     stats.SwarmID,
		Request:     out.Transcript.Request,
		Synthesis:   out.Synthesis,
		Turns:       len(out.Results),
		Threads:     stats.ActiveThreads + stats.CompletedThreads,
		Connections: stats.TotalConnections,
		Coherence:   stats.AverageCoherence,
	})
}
