// Package main implements offline braiding of recorded message logs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/threadloom/braid/internal/braid"
	"github.com/threadloom/braid/internal/render"
	"github.com/threadloom/braid/internal/transcript"
)

// Run braids a recorded message log and prints the result.
func (w *WeaveCmd) Run() error {
	cfg, err := loadConfig(w.Config)
	if err != nil {
		return err
	}

	msgs, err := loadMessages(w.File)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return fmt.Errorf("no messages in %s", w.File)
	}

	braider := newBraider(cfg, w.Pattern)
	ctx := context.Background()

	var results []braid.BraidingResult
	for _, msg := range msgs {
		results = append(results, braider.ProcessMessage(ctx, msg))
	}

	if w.Threads {
		render.PrintThreads(os.Stdout, braider.Threads())
	} else {
		for _, result := range results {
			render.PrintResult(os.Stdout, result)
			fmt.Println()
		}
	}
	render.PrintStatistics(os.Stdout, braider.Statistics())
	return nil
}

// Run re-braids a saved transcript and prints statistics only.
func (s *StatsCmd) Run() error {
	cfg, err := loadConfig(s.Config)
	if err != nil {
		return err
	}

	msgs, err := loadMessages(s.File)
	if err != nil {
		return err
	}

	braider := newBraider(cfg, "")
	ctx := context.Background()
	for _, msg := range msgs {
		braider.ProcessMessage(ctx, msg)
	}

	render.PrintStatistics(os.Stdout, braider.Statistics())
	return nil
}

// loadMessages reads either a saved transcript or a raw JSON array of
// messages, ordered by timestamp.
func loadMessages(path string) ([]braid.Message, error) {
	if tr, err := transcript.Load(path); err == nil && len(tr.Events) > 0 {
		return tr.Messages(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgs []braid.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("%s is neither a transcript nor a message array: %w", path, err)
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}
