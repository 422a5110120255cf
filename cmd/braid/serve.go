// Package main implements the NATS ingest bridge command.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/threadloom/braid/internal/ingest"
)

// Run starts the ingest bridge and blocks until interrupted.
func (s *ServeCmd) Run() error {
	cfg, err := loadConfig(s.Config)
	if err != nil {
		return err
	}

	closeTelemetry, err := setupTelemetry(cfg)
	if err != nil {
		return err
	}
	defer closeTelemetry()

	url := cfg.Ingest.URL
	if s.URL != "" {
		url = s.URL
	}
	subject := cfg.Ingest.Subject
	if s.Subject != "" {
		subject = s.Subject
	}

	braider := newBraider(cfg, "")
	bridge := ingest.NewBridge(url, subject, braider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
