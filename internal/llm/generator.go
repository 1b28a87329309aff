package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/council-ai/council/internal/agent"
	"github.com/council-ai/council/internal/debate"
)

// Generation tuning mirrors the council's standard settings.
const (
	proposalTemperature = 0.8
	critiqueTemperature = 0.7
	generationMaxTokens = 800
)

// Generator adapts the chat client to debate.Generator. Replies are
// requested as strict JSON; anything else is an error the proposal and
// critique stages recover from.
type Generator struct {
	client *Client
}

// NewGenerator wraps a Client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// proposalReply is the JSON shape agents are instructed to answer with.
type proposalReply struct {
	Platform  string  `json:"platform"`
	Approach  string  `json:"approach"`
	Reasoning string  `json:"reasoning"`
	Score     float64 `json:"score"`
}

// critiqueReply is the JSON shape for one critique.
type critiqueReply struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

// Proposals asks the model for the agent's campaign ideas.
func (g *Generator) Proposals(ctx context.Context, ag agent.Agent, campaign debate.CampaignContext) ([]debate.Proposal, error) {
	raw, err := g.client.Complete(ctx, systemPrompt(ag), proposalPrompt(campaign), proposalTemperature, generationMaxTokens)
	if err != nil {
		return nil, err
	}

	var replies []proposalReply
	if err := json.Unmarshal(extractJSON(raw), &replies); err != nil {
		return nil, fmt.Errorf("parse proposal reply: %w", err)
	}

	out := make([]debate.Proposal, 0, len(replies))
	for _, r := range replies {
		platform, err := parsePlatform(r.Platform)
		if err != nil {
			return nil, err
		}
		out = append(out, debate.Proposal{
			Platform:  platform,
			Approach:  strings.TrimSpace(r.Approach),
			Reasoning: strings.TrimSpace(r.Reasoning),
			SelfScore: r.Score,
		})
	}
	return out, nil
}

// Critique asks the model for the critic's objection to one proposal.
func (g *Generator) Critique(ctx context.Context, critic agent.Agent, target debate.Proposal, campaign debate.CampaignContext) (debate.Critique, error) {
	raw, err := g.client.Complete(ctx, systemPrompt(critic), critiquePrompt(target, campaign), critiqueTemperature, generationMaxTokens)
	if err != nil {
		return debate.Critique{}, err
	}

	var reply critiqueReply
	if err := json.Unmarshal(extractJSON(raw), &reply); err != nil {
		return debate.Critique{}, fmt.Errorf("parse critique reply: %w", err)
	}

	category, err := parseCategory(reply.Category)
	if err != nil {
		return debate.Critique{}, err
	}
	return debate.Critique{
		Category: category,
		Detail:   strings.TrimSpace(reply.Detail),
	}, nil
}

func systemPrompt(ag agent.Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a member of an AI Marketing Council.\n\n", ag.Name)
	fmt.Fprintf(&b, "ROLE: %s\n\n", ag.Role)
	fmt.Fprintf(&b, "PERSONALITY: %s\n\n", ag.Personality)
	b.WriteString("YOUR GOALS:\n")
	for _, goal := range ag.Goals {
		fmt.Fprintf(&b, "- %s\n", goal)
	}
	b.WriteString(`
INSTRUCTIONS:
- Advocate strongly for your perspective
- Provide specific, actionable recommendations
- Critique other agents' proposals when they conflict with your goals
- Stay in character at all times
- Answer with JSON only, no prose outside the JSON
`)
	return b.String()
}

func proposalPrompt(campaign debate.CampaignContext) string {
	var b strings.Builder
	b.WriteString("BRAND CONTEXT:\n")
	fmt.Fprintf(&b, "Brand: %s\nIndustry: %s\nTarget Audience: %s\n\n", campaign.Brand, campaign.Industry, campaign.Audience)
	fmt.Fprintf(&b, "PRODUCT/CAMPAIGN:\n%s\n\n", campaign.Product)
	if len(campaign.Trends) > 0 {
		b.WriteString("TRENDING TOPICS:\n")
		for i, trend := range campaign.Trends {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", trend)
		}
		b.WriteString("\n")
	}
	b.WriteString(`TASK: Propose 2 specific social media post ideas for this campaign.
Reply with a JSON array; each element must have exactly these keys:
  "platform": one of "twitter", "instagram", "linkedin"
  "approach": the content approach, one or two sentences
  "reasoning": why this aligns with your goals
  "score": your rating of its potential, a number from 1 to 10`)
	return b.String()
}

func critiquePrompt(target debate.Proposal, campaign debate.CampaignContext) string {
	var b strings.Builder
	b.WriteString("BRAND CONTEXT:\n")
	fmt.Fprintf(&b, "Brand: %s\nProduct: %s\n\n", campaign.Brand, campaign.Product)
	b.WriteString("PROPOSAL UNDER REVIEW:\n")
	fmt.Fprintf(&b, "Platform: %s\nApproach: %s\nSelf-rated: %.0f/10\n\n", target.Platform, target.Approach, target.SelfScore)
	b.WriteString(`TASK: Critique this proposal from YOUR perspective. This is a debate,
not a collaboration; be direct and specific.
Reply with a single JSON object with exactly these keys:
  "category": one of "goal-conflict", "risk", "missed-opportunity"
  "detail": your objection, one or two sentences`)
	return b.String()
}

func parsePlatform(s string) (debate.Platform, error) {
	switch debate.Platform(strings.ToLower(strings.TrimSpace(s))) {
	case debate.PlatformTwitter:
		return debate.PlatformTwitter, nil
	case debate.PlatformInstagram:
		return debate.PlatformInstagram, nil
	case debate.PlatformLinkedIn:
		return debate.PlatformLinkedIn, nil
	}
	return "", fmt.Errorf("unknown platform %q in reply", s)
}

func parseCategory(s string) (debate.Category, error) {
	switch debate.Category(strings.ToLower(strings.TrimSpace(s))) {
	case debate.CategoryGoalConflict:
		return debate.CategoryGoalConflict, nil
	case debate.CategoryRisk:
		return debate.CategoryRisk, nil
	case debate.CategoryMissedOpportunity:
		return debate.CategoryMissedOpportunity, nil
	}
	return "", fmt.Errorf("unknown category %q in reply", s)
}

// extractJSON strips markdown code fences and any prose around the first
// JSON value. Models wrap JSON in fences often enough that parsing the raw
// reply directly is a losing move.
func extractJSON(raw string) []byte {
	s := strings.TrimSpace(raw)
	if start := strings.Index(s, "```"); start != -1 {
		s = s[start+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return []byte(s)
	}
	closing := byte(']')
	if s[start] == '{' {
		closing = '}'
	}
	if end := strings.LastIndexByte(s, closing); end > start {
		s = s[start : end+1]
	}
	return []byte(s)
}
