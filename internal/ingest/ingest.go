// Package ingest bridges an external message bus into the braider. Agents
// that run outside this process publish their messages to a NATS subject
// and the bridge feeds them through braiding.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/vinayprograms/agentkit/logging"

	"github.com/threadloom/braid/internal/braid"
)

// Bridge subscribes to a NATS subject and braids every message published
// there.
type Bridge struct {
	url     string
	subject string
	braider *braid.Braider
	logger  *logging.Logger

	conn *nats.Conn
	sub  *nats.Subscription
}

// NewBridge creates a bridge for the given NATS URL and subject. An empty
// URL selects the default local server.
func NewBridge(url, subject string, braider *braid.Braider) *Bridge {
	if url == "" {
		url = nats.DefaultURL
	}
	return &Bridge{
		url:     url,
		subject: subject,
		braider: braider,
		logger:  logging.New().WithComponent("ingest"),
	}
}

// Run connects, subscribes, and braids until the context is cancelled.
// Malformed payloads are logged and dropped, they never stop the bridge.
func (b *Bridge) Run(ctx context.Context) error {
	conn, err := nats.Connect(b.url,
		nats.Name("braid-ingest"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", b.url, err)
	}
	b.conn = conn

	sub, err := conn.Subscribe(b.subject, b.handle)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	b.sub = sub

	b.logger.Info("ingest bridge running", map[string]interface{}{
		"url":     b.url,
		"subject": b.subject,
	})

	<-ctx.Done()

	// Drain lets in-flight handlers finish before the connection closes.
	if err := conn.Drain(); err != nil {
		b.logger.Warn("drain failed", map[string]interface{}{"error": err.Error()})
	}
	return ctx.Err()
}

// handle decodes one bus message and feeds it to the braider.
func (b *Bridge) handle(m *nats.Msg) {
	var msg braid.Message
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		b.logger.Warn("dropping malformed message", map[string]interface{}{
			"subject": m.Subject,
			"error":   err.Error(),
		})
		return
	}

	result := b.braider.ProcessMessage(context.Background(), msg)
	b.logger.Debug("braided bus message", map[string]interface{}{
		"message_id":  result.MessageID,
		"threads":     len(result.AssignedThreads),
		"connections": len(result.NewConnections),
		"confidence":  result.Confidence,
	})

	// Reply with the braiding result when the publisher asked for one.
	if m.Reply != "" {
		data, err := json.Marshal(result)
		if err != nil {
			return
		}
		if err := m.Respond(data); err != nil {
			b.logger.Warn("failed to send braid reply", map[string]interface{}{"error": err.Error()})
		}
	}
}
