// Package delivery posts finished swarm runs to external channels.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vinayprograms/agentkit/logging"
)

// Summary is the outward-facing digest of a completed run.
type Summary struct {
	SwarmID     string  `json:"swarm_id"`
	Request     string  `json:"request"`
	Synthesis   string  `json:"synthesis"`
	Turns       int     `json:"turns"`
	Threads     int     `json:"threads"`
	Connections int     `json:"connections"`
	Coherence   float64 `json:"average_coherence"`
}

// Deliverer sends a run summary somewhere.
type Deliverer interface {
	Deliver(ctx context.Context, s Summary) error
}

// Webhook posts summaries as Slack-compatible JSON payloads.
type Webhook struct {
	url    string
	client *http.Client
	logger *logging.Logger
}

// NewWebhook creates a webhook deliverer for the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.New().WithComponent("delivery"),
	}
}

type webhookPayload struct {
	Text    string  `json:"text"`
	Summary Summary `json:"summary"`
}

// Deliver posts the summary. Any non-2xx response is an error.
func (w *Webhook) Deliver(ctx context.Context, s Summary) error {
	payload := webhookPayload{
		Text:    formatText(s),
		Summary: s,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(body))
	}

	w.logger.Info("summary delivered", map[string]interface{}{
		"swarm_id": s.SwarmID,
		"status":   resp.StatusCode,
	})
	return nil
}

// formatText renders the Slack text line for the summary.
func formatText(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Swarm %s finished: %d turns across %d threads (%d connections, coherence %.2f)\n\n",
		s.SwarmID, s.Turns, s.Threads, s.Connections, s.Coherence)
	b.WriteString(s.Synthesis)
	return b.String()
}

// Noop discards summaries. Used when no webhook is configured.
type Noop struct{}

func (Noop) Deliver(ctx context.Context, s Summary) error { return nil }
