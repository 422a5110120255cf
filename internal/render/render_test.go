package render

import (
	"strings"
	"testing"
	"time"

	"github.com/threadloom/braid/internal/braid"
)

func TestPrintStatistics(t *testing.T) {
	stats := braid.Statistics{
		SwarmID:          "swarm-1",
		ActiveThreads:    2,
		CompletedThreads: 1,
		TotalMessages:    12,
		TotalConnections: 7,
		ThreadTypes: map[braid.BraidType]int{
			braid.BraidDebate:     1,
			braid.BraidSequential: 2,
		},
		MessageTypes: map[braid.MessageType]int{
			braid.TypeAnalysisResult: 6,
			braid.TypeChallenge:      3,
		},
		AverageCoherence:  0.74,
		StrengthHistogram: map[string]int{"strong": 4, "moderate": 3},
	}

	var b strings.Builder
	PrintStatistics(&b, stats)
	out := b.String()

	for _, want := range []string{"swarm-1", "2 active, 1 completed", "12", "debate:", "sequential:", "analysis_result:", "strong:", "0.74"} {
		if !strings.Contains(out, want) {
			t.Errorf("statistics output missing %q", want)
		}
	}
}

func TestPrintResult(t *testing.T) {
	result := braid.BraidingResult{
		MessageID:       "m-9",
		AssignedThreads: []string{"t-1"},
		Confidence:      0.62,
		Reasoning:       "linked to 1 thread",
		NewConnections: []braid.Connection{
			{
				SourceID: "m-8",
				TargetID: "m-9",
				Type:     braid.BraidDebate,
				Strength: 0.71,
				Semantic: 0.8,
				Temporal: 0.9,
				Logical:  0.5,
			},
		},
		SuggestedResponses: []braid.ResponseHint{
			{Type: "challenge_response", Priority: 0.8},
		},
	}

	var b strings.Builder
	PrintResult(&b, result)
	out := b.String()

	for _, want := range []string{"m-9", "t-1", "0.62", "debate", "m-8 -> m-9", "challenge_response", "linked to 1 thread"} {
		if !strings.Contains(out, want) {
			t.Errorf("result output missing %q", want)
		}
	}
}

func TestPrintThreadsWrapsLongContent(t *testing.T) {
	long := strings.Repeat("reliability analysis ", 12)
	threads := []braid.Thread{
		{
			ID:     "t-1",
			Type:   braid.BraidSequential,
			Status: braid.StatusActive,
			Messages: []braid.Message{
				{SenderRole: braid.RoleAnalyst, Type: braid.TypeAnalysisResult, Content: long, Timestamp: time.Now()},
			},
			Coherence: 0.8,
		},
		{
			ID:     "t-2",
			Type:   braid.BraidDebate,
			Status: braid.StatusCompleted,
			Messages: []braid.Message{
				{SenderRole: braid.RoleValidator, Type: braid.TypeChallenge, Content: "short", Timestamp: time.Now()},
			},
			Coherence: 0.6,
		},
	}

	var b strings.Builder
	PrintThreads(&b, threads)
	out := b.String()

	if !strings.Contains(out, "t-1") || !strings.Contains(out, "t-2") {
		t.Fatal("thread ids missing from output")
	}
	if !strings.Contains(out, "completed") {
		t.Error("thread status missing from output")
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "reliability") && len(line) > contentWidth+10 {
			t.Errorf("content line not wrapped: %d chars", len(line))
		}
	}
}
