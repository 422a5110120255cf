package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/threadloom/braid/internal/braid"
)

// contentWidth bounds wrapped message content in thread listings.
const contentWidth = 72

// PrintStatistics outputs swarm statistics to the writer.
func PrintStatistics(w io.Writer, stats braid.Statistics) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("═══════════════════════════════════════════════════════════════════"))
	fmt.Fprintln(w, titleStyle.Render("                          SWARM STATISTICS                          "))
	fmt.Fprintln(w, titleStyle.Render("═══════════════════════════════════════════════════════════════════"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Swarm:"), valueStyle.Render(stats.SwarmID))
	fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render("Threads:"),
		valueStyle.Render(fmt.Sprintf("%d active, %d completed", stats.ActiveThreads, stats.CompletedThreads)))
	fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render("Messages:"),
		valueStyle.Render(fmt.Sprintf("%d", stats.TotalMessages)))
	fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render("Connections:"),
		valueStyle.Render(fmt.Sprintf("%d", stats.TotalConnections)))
	fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render("Avg Coherence:"),
		valueStyle.Render(fmt.Sprintf("%.2f", stats.AverageCoherence)))
	fmt.Fprintln(w)

	if len(stats.ThreadTypes) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Thread Patterns:"))
		names := make([]string, 0, len(stats.ThreadTypes))
		for t := range stats.ThreadTypes {
			names = append(names, string(t))
		}
		sort.Strings(names)
		for _, name := range names {
			style := threadStyle(braid.BraidType(name))
			fmt.Fprintf(w, "  %s %s\n",
				style.Render(name+":"),
				valueStyle.Render(fmt.Sprintf("%d", stats.ThreadTypes[braid.BraidType(name)])))
		}
		fmt.Fprintln(w)
	}

	if len(stats.MessageTypes) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Message Types:"))
		names := make([]string, 0, len(stats.MessageTypes))
		for t := range stats.MessageTypes {
			names = append(names, string(t))
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s %s\n",
				labelStyle.Render(name+":"),
				valueStyle.Render(fmt.Sprintf("%d", stats.MessageTypes[braid.MessageType(name)])))
		}
		fmt.Fprintln(w)
	}

	if len(stats.StrengthHistogram) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Connection Strengths:"))
		for _, bucket := range []string{"weak", "moderate", "strong", "very_strong"} {
			if n, ok := stats.StrengthHistogram[bucket]; ok {
				fmt.Fprintf(w, "  %s %s\n",
					labelStyle.Render(bucket+":"),
					valueStyle.Render(fmt.Sprintf("%d", n)))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintResult outputs one braiding result.
func PrintResult(w io.Writer, result braid.BraidingResult) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Message:"), valueStyle.Render(result.MessageID))
	fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render("Threads:"),
		valueStyle.Render(strings.Join(result.AssignedThreads, ", ")))
	fmt.Fprintf(w, "%s %s\n",
		labelStyle.Render("Confidence:"),
		strengthStyle(result.Confidence).Render(fmt.Sprintf("%.2f", result.Confidence)))
	if result.Reasoning != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Reasoning:"), dimStyle.Render(result.Reasoning))
	}

	for _, c := range result.NewConnections {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			threadStyle(c.Type).Render(string(c.Type)),
			dimStyle.Render(c.SourceID+" -> "+c.TargetID),
			strengthStyle(c.Strength).Render(fmt.Sprintf("%.2f", c.Strength)),
			dimStyle.Render(fmt.Sprintf("(sem %.2f, tmp %.2f, log %.2f)", c.Semantic, c.Temporal, c.Logical)))
	}

	for _, h := range result.SuggestedResponses {
		fmt.Fprintf(w, "  %s %s %s\n",
			labelStyle.Render("suggest:"),
			valueStyle.Render(h.Type),
			dimStyle.Render(fmt.Sprintf("(priority %.1f)", h.Priority)))
	}
}

// PrintThreads outputs a listing of threads with wrapped message content.
func PrintThreads(w io.Writer, threads []braid.Thread) {
	for i, t := range threads {
		if i > 0 {
			fmt.Fprintln(w, divider)
		}
		style := threadStyle(t.Type)
		fmt.Fprintf(w, "%s %s %s\n",
			style.Render(string(t.Type)),
			titleStyle.Render(t.ID),
			dimStyle.Render(fmt.Sprintf("[%s, %d messages, coherence %.2f]", t.Status, len(t.Messages), t.Coherence)))

		for _, m := range t.Messages {
			fmt.Fprintf(w, "  %s %s\n",
				dimStyle.Render(m.Timestamp.Format("15:04:05")),
				valueStyle.Render(fmt.Sprintf("%s (%s)", m.SenderRole, m.Type)))
			wrapped := wordwrap.String(m.Content, contentWidth)
			for _, line := range strings.Split(wrapped, "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
}
