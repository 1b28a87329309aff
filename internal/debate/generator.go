package debate

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/council-ai/council/internal/agent"
)

// Generator produces proposal and critique content for an agent. The
// agent's personality and goals bias what it produces; that policy lives in
// the implementation, not in the stages.
//
// Implementations may block on network calls; they must honor ctx. A failed
// call is recovered by the calling stage, never surfaced to the iteration.
type Generator interface {
	// Proposals returns the agent's candidate ideas for the campaign.
	// AgentID and ID on the returned proposals are assigned by the stage.
	Proposals(ctx context.Context, ag agent.Agent, campaign CampaignContext) ([]Proposal, error)

	// Critique returns the critic's objection to a single proposal it does
	// not own. AgentID and ProposalID on the result are assigned by the stage.
	Critique(ctx context.Context, critic agent.Agent, target Proposal, campaign CampaignContext) (Critique, error)
}

// HeuristicGenerator is a deterministic, offline Generator. Given identical
// agents and campaign context it always produces identical output, which
// makes it the generator of choice for tests and for runs without a
// model-inference backend.
type HeuristicGenerator struct {
	// PerAgent is how many proposals each agent pitches. Zero means 2.
	PerAgent int
}

func (g *HeuristicGenerator) perAgent() int {
	if g.PerAgent <= 0 {
		return 2
	}
	return g.PerAgent
}

// Proposals derives platform, approach, and self-score from the agent's
// goals and the campaign brief.
func (g *HeuristicGenerator) Proposals(ctx context.Context, ag agent.Agent, campaign CampaignContext) ([]Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	platform := preferredPlatform(ag)
	out := make([]Proposal, 0, g.perAgent())
	for i := 0; i < g.perAgent(); i++ {
		angle := angleFor(ag, campaign, i)
		out = append(out, Proposal{
			Platform:  platform,
			Approach:  angle,
			Reasoning: reasoningFor(ag, campaign, angle),
			SelfScore: selfScore(ag, campaign, i),
		})
	}
	return out, nil
}

// Critique picks a concern category by weighing the critic's goals against
// the target proposal, then writes a one-line objection.
func (g *HeuristicGenerator) Critique(ctx context.Context, critic agent.Agent, target Proposal, campaign CampaignContext) (Critique, error) {
	if err := ctx.Err(); err != nil {
		return Critique{}, err
	}

	category := CategorizeConcern(critic, target)
	var detail string
	switch category {
	case CategoryRisk:
		detail = fmt.Sprintf("A %s push rated %.0f/10 invites backlash that %s cannot absorb; the approach %q trades safety for reach.",
			target.Platform, target.SelfScore, campaign.Brand, target.Approach)
	case CategoryMissedOpportunity:
		detail = fmt.Sprintf("The %s angle ignores where %s actually converts; %q would land harder on %s.",
			target.Platform, campaign.Brand, target.Approach, preferredPlatform(critic))
	default:
		detail = fmt.Sprintf("%q runs against the goal %q; the council should not fund both directions at once.",
			target.Approach, primaryGoal(critic))
	}

	return Critique{Category: category, Detail: detail}, nil
}

// CategorizeConcern deterministically selects the concern category a critic
// raises against a proposal: safety-minded critics flag confident pitches as
// risk, platform specialists flag off-platform pitches as missed
// opportunity, and everything else is a goal conflict.
func CategorizeConcern(critic agent.Agent, target Proposal) Category {
	if target.SelfScore >= 8 && hasSafetyGoal(critic) {
		return CategoryRisk
	}
	if pref := preferredPlatform(critic); pref != target.Platform && isSpecialist(critic) {
		return CategoryMissedOpportunity
	}
	return CategoryGoalConflict
}

func hasSafetyGoal(ag agent.Agent) bool {
	for _, goal := range ag.Goals {
		lower := strings.ToLower(goal)
		if strings.Contains(lower, "protect") || strings.Contains(lower, "avoid") ||
			strings.Contains(lower, "safe") || strings.Contains(lower, "reputation") {
			return true
		}
	}
	return false
}

func isSpecialist(ag agent.Agent) bool {
	id := strings.ToLower(ag.ID)
	return strings.Contains(id, "specialist") || strings.Contains(id, "twitter") ||
		strings.Contains(id, "instagram") || strings.Contains(id, "linkedin")
}

// preferredPlatform maps an agent to the platform its goals center on.
func preferredPlatform(ag agent.Agent) Platform {
	id := strings.ToLower(ag.ID + " " + ag.Role)
	switch {
	case strings.Contains(id, "twitter"):
		return PlatformTwitter
	case strings.Contains(id, "instagram"):
		return PlatformInstagram
	case strings.Contains(id, "linkedin") || hasSafetyGoal(ag):
		return PlatformLinkedIn
	default:
		return PlatformTwitter
	}
}

func primaryGoal(ag agent.Agent) string {
	if len(ag.Goals) > 0 {
		return ag.Goals[0]
	}
	return "its mandate"
}

var angles = []string{
	"Launch teaser thread spotlighting %s for %s",
	"Customer story carousel showing %s winning with %s",
	"Behind-the-scenes look at how %s builds %s",
	"Hot-take commentary tying %s to this week's conversation around %s",
}

func angleFor(ag agent.Agent, campaign CampaignContext, n int) string {
	idx := int((hash(ag.ID+campaign.Brand) + uint64(n)) % uint64(len(angles)))
	return fmt.Sprintf(angles[idx], campaign.Product, campaign.Brand)
}

func reasoningFor(ag agent.Agent, campaign CampaignContext, angle string) string {
	return fmt.Sprintf("%s: %q serves %s by pushing %q to %s.",
		ag.Name, primaryGoal(ag), campaign.Brand, angle, campaign.Audience)
}

// selfScore is stable across runs: a base in [5,8] keyed by agent and brand,
// +1 when trend signals are available, capped at 10.
func selfScore(ag agent.Agent, campaign CampaignContext, n int) float64 {
	base := 5 + float64((hash(ag.ID+campaign.Brand)+uint64(n))%4)
	if len(campaign.Trends) > 0 {
		base++
	}
	if base > 10 {
		base = 10
	}
	return base
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
