// Tracing instrumentation for swarm runs.
package swarm

import (
	"context"

	"github.com/vinayprograms/agentkit/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/threadloom/braid/internal/roster"
)

// startRunSpan starts a span covering a full swarm run.
func (c *Coordinator) startRunSpan(ctx context.Context, request string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "swarm.run")
	span.SetAttributes(
		attribute.String("swarm.id", c.braider.SwarmID()),
		attribute.Int("swarm.personas", len(c.personas)),
		attribute.Int("swarm.request_chars", len(request)),
	)
	return ctx, span
}

// endRunSpan ends the run span with outcome info.
func (c *Coordinator) endRunSpan(span trace.Span, out *Outcome, err error) {
	span.SetAttributes(
		attribute.Int("swarm.turns", len(out.Results)),
		attribute.Int("swarm.connections", out.Statistics.TotalConnections),
	)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// startTurnSpan starts a span for one persona turn.
func (c *Coordinator) startTurnSpan(ctx context.Context, p *roster.Persona) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "swarm.turn."+p.Name)
	span.SetAttributes(
		attribute.String("turn.persona", p.Name),
		attribute.String("turn.role", string(p.BraidRole())),
	)
	return ctx, span
}

// endTurnSpan ends a turn span, recording the braider's reasoning when
// present.
func (c *Coordinator) endTurnSpan(span trace.Span, reasoning string, err error) {
	if reasoning != "" {
		span.SetAttributes(attribute.String("turn.braid_reasoning", reasoning))
	}
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
