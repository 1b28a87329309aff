package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/content"
	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/learning"
	"github.com/council-ai/council/internal/orchestrator"
	"github.com/council-ai/council/internal/util"
)

// RenderRoster renders the agent table: identity, weight, and win/loss
// tally per agent, in registry order.
func RenderRoster(agents []agent.Agent) string {
	var b strings.Builder
	b.WriteString(Title.Render("Council Roster"))
	b.WriteString("\n")
	b.WriteString(Header.Render(fmt.Sprintf("%-22s %-22s %8s %6s %6s", "AGENT", "ROLE", "WEIGHT", "WINS", "LOSSES")))
	b.WriteString("\n")
	for _, ag := range agents {
		name := ag.Name
		if ag.Color != "" {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(ag.Color)).Render(name)
		}
		fmt.Fprintf(&b, "%s %-22s %8.2f %6d %6d\n", util.PadANSI(name, 22), util.TruncateString(ag.Role, 22), ag.Weight, ag.Wins, ag.Losses)
	}
	return b.String()
}

// RenderDecision renders the arbitration result: winner, confidence,
// justification, and the full scored ranking.
func RenderDecision(d debate.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", WinnerBadge.Render("WINNER"), Primary.Render(d.WinnerAgentID))
	fmt.Fprintf(&b, "Proposal:   %s (%s)\n", d.Winner.Approach, d.Winner.Platform)
	fmt.Fprintf(&b, "Confidence: %s\n\n", confidenceStyle(d.Confidence).Render(fmt.Sprintf("%.0f/10", d.Confidence)))
	b.WriteString(d.Justification)
	b.WriteString("\n\n")
	b.WriteString(Header.Render(fmt.Sprintf("%-24s %6s %8s %7s %9s", "PROPOSAL", "RAW", "PENALTY", "WEIGHT", "ADJUSTED")))
	b.WriteString("\n")
	for _, sp := range d.Ranking {
		line := fmt.Sprintf("%-24s %6.1f %8.1f %7.2f %9.2f", sp.Proposal.ID, sp.Raw, sp.Penalty, sp.Weight, sp.Adjusted)
		if sp.Proposal.ID == d.Winner.ID {
			line = Secondary.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return DecisionBox.Render(b.String())
}

// RenderRecord renders one completed or pending iteration.
func RenderRecord(rec *orchestrator.IterationRecord) string {
	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("Iteration %d: %s", rec.Iteration, rec.Campaign.Brand)))
	b.WriteString("\n")

	if len(rec.Campaign.Trends) > 0 {
		b.WriteString(Muted.Render("Trends: " + strings.Join(rec.Campaign.Trends, "; ")))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nProposals (%d", len(rec.Proposals))
	if rec.Fallbacks > 0 {
		fmt.Fprintf(&b, ", %s", FallbackBadge.Render(fmt.Sprintf("%d fallback", rec.Fallbacks)))
	}
	b.WriteString("):\n")
	for _, p := range rec.Proposals {
		marker := "  "
		if p.ID == rec.Decision.Winner.ID {
			marker = Secondary.Render("> ")
		}
		fmt.Fprintf(&b, "%s%-24s %-10s %4.1f  %s\n", marker, p.ID, p.Platform, p.SelfScore, util.TruncateString(p.Approach, 48))
	}

	fmt.Fprintf(&b, "\nCritiques: %d\n\n", len(rec.Critiques))
	b.WriteString(RenderDecision(rec.Decision))
	b.WriteString("\n")

	if rec.Post != nil {
		b.WriteString(RenderPost(*rec.Post))
		b.WriteString("\n")
	}
	if rec.Outcome != nil {
		fmt.Fprintf(&b, "Engagement: %s (likes %d, shares %d, comments %d)\n",
			outcomeStyle(rec.Outcome.Score).Render(fmt.Sprintf("%.1f/10", rec.Outcome.Score)),
			rec.Outcome.Likes, rec.Outcome.Shares, rec.Outcome.Comments)
	}
	if len(rec.Weights) > 0 {
		b.WriteString("Weights: ")
		b.WriteString(renderWeights(rec.Weights))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPost renders the composed deliverable.
func RenderPost(post content.Post) string {
	var b strings.Builder
	label := fmt.Sprintf("Post (%s, %d chars", post.Platform, post.CharCount)
	if post.Templated {
		label += ", templated"
	}
	label += ")"
	b.WriteString(Header.Render(label))
	b.WriteString("\n")
	b.WriteString(post.Caption)
	b.WriteString("\n")
	if post.PostingTime != "" {
		b.WriteString(Muted.Render("Suggested slot: " + post.PostingTime))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHistory renders weight drift across iterations, one row per entry
// with per-agent movement marks against the previous row.
func RenderHistory(entries []learning.HistoryEntry) string {
	if len(entries) == 0 {
		return Muted.Render("No iterations recorded yet.") + "\n"
	}

	ids := weightIDs(entries)
	var b strings.Builder
	b.WriteString(Title.Render("Weight History"))
	b.WriteString("\n")
	b.WriteString(Header.Render(fmt.Sprintf("%4s  %-20s %7s", "ITER", "WINNER", "SCORE")))
	for _, id := range ids {
		b.WriteString(Header.Render(fmt.Sprintf(" %14s", util.TruncateString(id, 14))))
	}
	b.WriteString("\n")

	var prev map[string]float64
	for _, e := range entries {
		fmt.Fprintf(&b, "%4d  %-20s %7.1f", e.Iteration, util.TruncateString(e.WinnerID, 20), e.OutcomeScore)
		for _, id := range ids {
			b.WriteString(" ")
			b.WriteString(renderDrift(e.Weights[id], prev, id))
		}
		b.WriteString("\n")
		prev = e.Weights
	}
	return b.String()
}

func renderDrift(w float64, prev map[string]float64, id string) string {
	cell := fmt.Sprintf("%14.2f", w)
	if prev == nil {
		return WeightFlat.Render(cell)
	}
	switch {
	case w > prev[id]:
		return WeightUp.Render(cell)
	case w < prev[id]:
		return WeightDown.Render(cell)
	default:
		return WeightFlat.Render(cell)
	}
}

// renderWeights prints a weight snapshot as "id=w" pairs in id order.
func renderWeights(weights map[string]float64) string {
	ids := make([]string, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%.2f", id, weights[id]))
	}
	return strings.Join(parts, " ")
}

// weightIDs collects every agent id seen across the run, sorted.
func weightIDs(entries []learning.HistoryEntry) []string {
	set := make(map[string]struct{})
	for _, e := range entries {
		for id := range e.Weights {
			set[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func confidenceStyle(c float64) lipgloss.Style {
	switch {
	case c >= 7:
		return Secondary
	case c >= 4:
		return Warning
	default:
		return Error
	}
}

func outcomeStyle(score float64) lipgloss.Style {
	if score > 7 {
		return Secondary
	}
	return Warning
}
