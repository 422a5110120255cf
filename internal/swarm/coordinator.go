// Package swarm drives a roster of personas through an LLM provider and
// braids their replies into conversation threads.
package swarm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinayprograms/agentkit/llm"
	"github.com/vinayprograms/agentkit/logging"

	"github.com/threadloom/braid/internal/braid"
	"github.com/threadloom/braid/internal/roster"
	"github.com/threadloom/braid/internal/transcript"
)

// defaultTurnConfidence is attributed to persona replies. Personas do not
// self-report confidence, so every turn gets the same moderate value.
const defaultTurnConfidence = 0.7

// Coordinator runs one swarm: roster order decides speaking order, the
// braider decides which follow-up turns are worth taking.
type Coordinator struct {
	personas     []*roster.Persona
	provider     llm.Provider
	braider      *braid.Braider
	maxFollowUps int
	logger       *logging.Logger
}

// Outcome is the result of a swarm run.
type Outcome struct {
	Synthesis  string
	Results    []braid.BraidingResult
	Transcript *transcript.Transcript
	Statistics braid.Statistics
}

// NewCoordinator assembles a coordinator. maxFollowUps bounds the number
// of hint-driven extra turns per run; negative values mean zero.
func NewCoordinator(personas []*roster.Persona, provider llm.Provider, braider *braid.Braider, maxFollowUps int) *Coordinator {
	if maxFollowUps < 0 {
		maxFollowUps = 0
	}
	return &Coordinator{
		personas:     personas,
		provider:     provider,
		braider:      braider,
		maxFollowUps: maxFollowUps,
		logger:       logging.New().WithComponent("swarm"),
	}
}

// Run walks the roster in order, feeds each reply through the braider,
// takes bounded follow-up turns when the braider suggests them, and
// merges everything into a final synthesis.
func (c *Coordinator) Run(ctx context.Context, request string) (*Outcome, error) {
	if len(c.personas) == 0 {
		return nil, fmt.Errorf("swarm has no personas")
	}

	ctx, span := c.startRunSpan(ctx, request)
	tr := transcript.New(c.braider.SwarmID(), request)
	out := &Outcome{Transcript: tr}

	c.logger.Info("swarm run started", map[string]interface{}{
		"swarm_id": c.braider.SwarmID(),
		"personas": len(c.personas),
	})

	var turns []turnRecord
	followUpsTaken := 0

	for _, p := range c.personas {
		if err := ctx.Err(); err != nil {
			c.endRunSpan(span, out, err)
			return out, err
		}

		rec, err := c.takeTurn(ctx, tr, p, request, turns, "")
		if err != nil {
			c.logger.Warn("persona turn failed", map[string]interface{}{
				"persona": p.Name,
				"error":   err.Error(),
			})
			continue
		}
		turns = append(turns, *rec)
		out.Results = append(out.Results, rec.result)

		for followUpsTaken < c.maxFollowUps {
			hint, responder := c.pickFollowUp(rec.result.SuggestedResponses, p)
			if responder == nil {
				break
			}
			fu, err := c.takeTurn(ctx, tr, responder, request, turns, hint.Description)
			if err != nil {
				c.logger.Warn("follow-up turn failed", map[string]interface{}{
					"persona": responder.Name,
					"error":   err.Error(),
				})
				break
			}
			followUpsTaken++
			tr.Append(transcript.Event{
				Type:    transcript.EventFollowUp,
				Persona: responder.Name,
				Content: hint.Description,
			})
			turns = append(turns, *fu)
			out.Results = append(out.Results, fu.result)
			rec = fu
		}
	}

	if len(turns) == 0 {
		err := fmt.Errorf("no persona produced a reply")
		c.endRunSpan(span, out, err)
		return out, err
	}

	out.Synthesis = c.synthesize(ctx, tr, request, turns)
	out.Statistics = c.braider.Statistics()

	c.logger.Info("swarm run complete", map[string]interface{}{
		"turns":       len(turns),
		"follow_ups":  followUpsTaken,
		"threads":     out.Statistics.ActiveThreads + out.Statistics.CompletedThreads,
		"connections": out.Statistics.TotalConnections,
	})
	c.endRunSpan(span, out, nil)
	return out, nil
}

// turnRecord pairs a persona's reply with its braiding outcome.
type turnRecord struct {
	persona *roster.Persona
	message braid.Message
	result  braid.BraidingResult
}

// takeTurn prompts one persona and braids the reply. hint, when non-empty,
// is a braider suggestion the persona should address.
func (c *Coordinator) takeTurn(ctx context.Context, tr *transcript.Transcript, p *roster.Persona, request string, prior []turnRecord, hint string) (*turnRecord, error) {
	ctx, span := c.startTurnSpan(ctx, p)

	messages := []llm.Message{
		{Role: "system", Content: p.Prompt},
		{Role: "user", Content: buildTurnPrompt(request, prior, hint)},
	}

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{Messages: messages})
	if err != nil {
		c.endTurnSpan(span, "", err)
		return nil, fmt.Errorf("chat with %s failed: %w", p.Name, err)
	}

	msg := braid.Message{
		ID:         uuid.New().String(),
		SenderRole: p.BraidRole(),
		Type:       p.MessageType(),
		Content:    strings.TrimSpace(resp.Content),
		Confidence: defaultTurnConfidence,
		Timestamp:  time.Now(),
	}
	if hint != "" {
		// Follow-ups answer the most recent turn directly.
		if n := len(prior); n > 0 {
			msg.RecipientRole = prior[n-1].message.SenderRole
		}
	}

	result := c.braider.ProcessMessage(ctx, msg)

	tr.Append(transcript.Event{
		Type:    transcript.EventAgentTurn,
		Persona: p.Name,
		Message: &msg,
	})
	tr.Append(transcript.Event{
		Type:            transcript.EventBraid,
		Persona:         p.Name,
		AssignedThreads: result.AssignedThreads,
		Connections:     len(result.NewConnections),
		Confidence:      result.Confidence,
	})

	c.endTurnSpan(span, result.Reasoning, nil)
	return &turnRecord{persona: p, message: msg, result: result}, nil
}

// pickFollowUp chooses the highest-priority hint that a persona other
// than the last speaker can answer. Returns nils when no hint applies.
func (c *Coordinator) pickFollowUp(hints []braid.ResponseHint, lastSpeaker *roster.Persona) (braid.ResponseHint, *roster.Persona) {
	sorted := append([]braid.ResponseHint(nil), hints...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })

	for _, h := range sorted {
		for _, role := range h.SuggestedRoles {
			for _, p := range c.personas {
				if p.Name == lastSpeaker.Name {
					continue
				}
				if p.BraidRole() == role {
					return h, p
				}
			}
		}
	}
	return braid.ResponseHint{}, nil
}

// synthesize produces the final merged answer. It prefers a synthesizer
// persona, falls back to a generic synthesis prompt, and on LLM failure
// degrades to concatenating the turns.
func (c *Coordinator) synthesize(ctx context.Context, tr *transcript.Transcript, request string, turns []turnRecord) string {
	system := "You merge a multi-agent discussion into one final answer. Resolve disagreements, keep the strongest points, and answer the original request directly."
	for _, p := range c.personas {
		if p.BraidRole() == braid.RoleSynthesizer {
			system = p.Prompt
			break
		}
	}

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: buildTurnPrompt(request, turns, "Produce the final merged answer.")},
		},
	})

	var synthesis string
	if err != nil {
		c.logger.Warn("synthesis failed, concatenating turns", map[string]interface{}{"error": err.Error()})
		var parts []string
		for _, t := range turns {
			parts = append(parts, fmt.Sprintf("[%s] %s", t.persona.Name, t.message.Content))
		}
		synthesis = strings.Join(parts, "\n\n")
	} else {
		synthesis = strings.TrimSpace(resp.Content)
	}

	final := braid.Message{
		ID:         uuid.New().String(),
		SenderRole: braid.RoleSynthesizer,
		Type:       braid.TypeFinalOutput,
		Content:    synthesis,
		Confidence: defaultTurnConfidence,
		Timestamp:  time.Now(),
	}
	c.braider.ProcessMessage(ctx, final)

	tr.Append(transcript.Event{Type: transcript.EventSynthesis, Content: synthesis})
	return synthesis
}

// buildTurnPrompt renders the request plus the discussion so far.
func buildTurnPrompt(request string, prior []turnRecord, hint string) string {
	var b strings.Builder
	b.WriteString("Request:\n")
	b.WriteString(request)

	if len(prior) > 0 {
		b.WriteString("\n\nDiscussion so far:\n")
		for _, t := range prior {
			fmt.Fprintf(&b, "\n[%s, %s] %s\n", t.persona.Name, t.message.Type, t.message.Content)
		}
	}
	if hint != "" {
		b.WriteString("\nYour task now: ")
		b.WriteString(hint)
	}
	return b.String()
}
